package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/internal/table"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// emit writes v to the command's output in the selected format. text
// renders the text form.
func (s *session) emit(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	switch s.flags.format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(w)
}

// renderPage writes one page of records as an aligned table followed by
// the page position.
func renderPage[T any](w io.Writer, columns []table.Column[T], fields query.Fields[T], id func(T) string, page types.Page[T]) error {
	t := table.New(columns, fields, id, table.Options[T]{})
	t.SetData(page.Data)
	view, err := t.View()
	if err != nil {
		return err
	}
	if err := view.RenderRows(w); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Page %d of %d, %d total\n", page.Page, page.TotalPages, page.Total)
	return err
}

// field is one labelled line of a single-record rendering.
type field struct {
	label string
	value any
}

func renderFields(w io.Writer, fields []field) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, query.Format(f.value))
	}
	return tw.Flush()
}

// message returns a text renderer that prints one line.
func message(format string, args ...any) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	}
}
