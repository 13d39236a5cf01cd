package fetch

import (
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DecodeToUTF8 converts a response body to UTF-8 using the charset declared
// in the Content-Type header, a <meta> declaration, or byte-order sniffing.
// The extraction scanner assumes a UTF-8 superset, so everything funnels
// through here first.
//
// When no charset is declared the sniffer falls back to windows-1252 with
// low confidence; transforming valid UTF-8 through that would corrupt it, so
// uncertain guesses only apply to bodies that are not already valid UTF-8.
// On any decoding problem the original bytes are returned: the scanner
// tolerates invalid UTF-8, and losing content would be worse than passing it
// through undecoded.
func DecodeToUTF8(body []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if enc == nil || name == "utf-8" {
		return body
	}
	if !certain && utf8.Valid(body) {
		return body
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil || len(decoded) == 0 {
		return body
	}
	return decoded
}
