// Command extracttext runs the HTML-to-text scanner over a file or stdin.
// Handy for eyeballing extraction output without a network fetch.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/vulpeslabs/vulpes/internal/extract"
)

func main() {
	var b []byte
	var err error
	if len(os.Args) > 1 {
		b, err = os.ReadFile(os.Args[1])
	} else {
		b, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	os.Stdout.Write(extract.Text(b))
	fmt.Println()
}
