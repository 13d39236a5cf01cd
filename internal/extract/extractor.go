package extract

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap extraction tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into plain text.
	// Implementations should be deterministic and avoid side effects.
	Extract(input []byte) []byte
}

// StreamExtractor uses the single-pass byte scanner in Text. It holds no
// state and is safe for concurrent use.
type StreamExtractor struct{}

func (StreamExtractor) Extract(input []byte) []byte {
	return Text(input)
}
