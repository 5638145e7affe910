package upload

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render prints t as aligned columns, every cell verbatim.
func Render(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	width := t.Width()
	writeRow(tw, pad(t.Header, width))

	rule := make([]string, width)
	for i := range rule {
		n := 3
		if i < len(t.Header) && len(t.Header[i]) > n {
			n = len(t.Header[i])
		}
		rule[i] = strings.Repeat("-", n)
	}
	writeRow(tw, rule)

	for _, r := range t.Rows {
		writeRow(tw, pad(r, width))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return err
}

// tabs and newlines inside a cell would break the columns
var flatten = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		c = flatten.Replace(c)
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, c)
	}
	io.WriteString(w, "\n")
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
