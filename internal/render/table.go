package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Section is one titled table of a rendered result.
type Section struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Write renders sections as aligned plain-text tables separated by blank
// lines.
func Write(w io.Writer, sections ...Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeSection(w, s); err != nil {
			return fmt.Errorf("render %q: %w", s.Title, err)
		}
	}
	return nil
}

func writeSection(w io.Writer, s Section) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", s.Title, strings.Repeat("=", len([]rune(s.Title)))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(s.Header) > 0 {
		if _, err := fmt.Fprintln(tw, strings.Join(s.Header, "\t")); err != nil {
			return err
		}
	}
	for _, row := range s.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// String renders sections into a string.
func String(sections ...Section) string {
	var b strings.Builder
	_ = Write(&b, sections...)
	return b.String()
}
