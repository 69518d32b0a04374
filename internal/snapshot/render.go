package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/go-petr/pet-split/internal/settle"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON}

// Render writes the summary to w in the given format.
func Render(w io.Writer, summary settle.Summary, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(summary)
	case FormatText:
		return renderText(w, summary)
	}

	return fmt.Errorf("unknown format %q: must be one of %v", format, Formats)
}

func renderText(w io.Writer, summary settle.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "MEMBER\tPAID\tOWED\tBALANCE")

	for _, b := range summary.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Member, b.Paid.StringFixed(2), b.Owed.StringFixed(2), b.Net.StringFixed(2))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)

	if len(summary.Transfers) == 0 {
		fmt.Fprintln(w, "All settled up.")
	}

	for _, t := range summary.Transfers {
		fmt.Fprintf(w, "%s pays %s %s\n", t.Payer, t.Receiver, t.Amount.StringFixed(2))
	}

	if len(summary.Currencies) > 1 {
		fmt.Fprintf(w, "\nwarning: amounts in %s are netted without conversion\n", strings.Join(summary.Currencies, ", "))
	}

	return nil
}
