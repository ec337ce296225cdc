package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/barq/internal/symbology"
)

// formatsCmd represents the formats command.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported code formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, spec := range symbology.Barcodes() {
			fmt.Fprintf(w, "%s\t%s\n", spec.Format, spec.Description)
		}
		if qr, ok := symbology.Lookup(symbology.QR); ok {
			fmt.Fprintf(w, "%s\t%s\n", qr.Format, qr.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
