package extract

// Classification tables for the scanner. These are closed sets: there is no
// dynamic registration, and matching is ASCII case-insensitive because tag
// names are lowercased before lookup.

// skipTags are elements whose entire content is invisible. While one of these
// is open the scanner discards every byte until the matching close tag.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"noscript": true,
	"iframe":   true,
}

// blockTags are elements whose open and close boundaries force a line break.
var blockTags = map[string]bool{
	"p":          true,
	"div":        true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"li":         true,
	"ul":         true,
	"ol":         true,
	"dl":         true,
	"dt":         true,
	"dd":         true,
	"table":      true,
	"tr":         true,
	"blockquote": true,
	"pre":        true,
	"hr":         true,
	"article":    true,
	"section":    true,
	"header":     true,
	"footer":     true,
	"nav":        true,
	"main":       true,
}

// entities maps the supported named character references to a single output
// byte. Typographic names decode to their closest ASCII stand-in; widening to
// full Unicode scalar values would change output for callers that expect the
// byte-for-byte behavior, so the table stays byte-valued.
var entities = map[string]byte{
	"amp":   '&',
	"lt":    '<',
	"gt":    '>',
	"quot":  '"',
	"apos":  '\'',
	"nbsp":  ' ',
	"ndash": '-',
	"mdash": '-',
	"lsquo": '\'',
	"rsquo": '\'',
	"ldquo": '"',
	"rdquo": '"',
}
