package extract

import (
	"strings"
	"testing"
)

// Benchmark Text on representative HTML sizes and structures.
func BenchmarkText(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><p>a</p></body></html>")
	medium := makeHTML(50, 60)
	large := makeHTML(200, 200)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Text(small)
		}
	})
	b.Run("medium", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Text(medium)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Text(large)
		}
	})
}

// Pathological inputs exercise the bounded entity scan and unterminated tags.
func BenchmarkText_Adversarial(b *testing.B) {
	ampersands := []byte(strings.Repeat("&", 64*1024))
	angles := []byte(strings.Repeat("<", 8*1024))

	b.Run("ampersands", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Text(ampersands)
		}
	})
	b.Run("angles", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Text(angles)
		}
	})
}

func makeHTML(paras int, itemsPerList int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<html><head><title>demo</title><style>body{margin:0}</style></head><body>")
	for i := 0; i < paras; i++ {
		builder.WriteString("<h2>Heading</h2><p>")
		builder.WriteString(sampleText)
		builder.WriteString(" &amp; more &mdash; still more</p>")
	}
	builder.WriteString("<ul>")
	for i := 0; i < itemsPerList; i++ {
		builder.WriteString("<li>")
		builder.WriteString(sampleText)
		builder.WriteString("</li>")
	}
	builder.WriteString("</ul></body></html>")
	return []byte(builder.String())
}

const sampleText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
