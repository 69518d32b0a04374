package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-split/internal/snapshot"
)

// SettleOptions holds the flags of the settle command.
type SettleOptions struct {
	File   string
	Format string
}

// NewSettleCommand creates the settle command.
func NewSettleCommand() *cobra.Command {
	opts := &SettleOptions{}

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute balances and transfers of a snapshot file",
		Long: `Compute per-member balances and the transfers that settle them
from a YAML snapshot of members and expenses. Use "-f -" to read stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettle(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "snapshot file")
	cmd.Flags().StringVar(&opts.Format, "format", snapshot.FormatText, fmt.Sprintf("output format %v", snapshot.Formats))
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSettle(opts *SettleOptions, stdin io.Reader, out io.Writer) error {
	in := stdin

	if opts.File != "-" {
		f, err := os.Open(opts.File)
		if err != nil {
			return err
		}
		defer f.Close()

		in = f
	}

	snap, err := snapshot.Load(in)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.File, err)
	}

	summary, err := snapshot.Summarize(snap)
	if err != nil {
		return err
	}

	return snapshot.Render(out, summary, opts.Format)
}
