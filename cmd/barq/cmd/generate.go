package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/symbology"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a barcode or QR code image",
	Long: `Generate a barcode or QR code and write it as a PNG file.

Formats requiring a check digit (EAN, UPC, ISBN, ISSN, PZN) take the
payload without it; the check digit is computed and appended.

Examples:
  barq generate --data "HELLO123" --output code.png
  barq generate --data "123456789012" --format ean13 --output ean.png
  barq generate --data "https://example.com" --format qr --output qr.png
  barq generate --data "HELLO" --width 3 --height 25 --font-size 0 --output bare.png`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		if data == "" && len(args) > 0 {
			data = args[0]
		}
		data = strings.TrimSpace(data)
		if data == "" {
			return errors.New("no data provided (use --data or a positional argument)")
		}

		formatName, _ := cmd.Flags().GetString("format")
		spec, err := symbology.Parse(formatName)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return errors.New("no output file provided (use --output)")
		}

		cfg := GetConfig()

		var pngData []byte
		if spec.Carrier == symbology.CarrierQR {
			opts := qrDefaultsFromConfig(cfg.Generate)
			if cmd.Flags().Changed("error-correction") {
				opts.ErrorCorrection, _ = cmd.Flags().GetString("error-correction")
			}
			if cmd.Flags().Changed("box-size") {
				opts.BoxSize, _ = cmd.Flags().GetInt("box-size")
			}
			if cmd.Flags().Changed("border") {
				opts.Border, _ = cmd.Flags().GetInt("border")
			}
			if cmd.Flags().Changed("foreground") {
				opts.FillColor, _ = cmd.Flags().GetString("foreground")
			}
			if cmd.Flags().Changed("background") {
				opts.BackColor, _ = cmd.Flags().GetString("background")
			}
			pngData, err = render.QR(data, opts)
		} else {
			opts := barcodeDefaultsFromConfig(cfg.Generate)
			if cmd.Flags().Changed("width") {
				opts.ModuleWidth, _ = cmd.Flags().GetFloat64("width")
			}
			if cmd.Flags().Changed("height") {
				opts.Height, _ = cmd.Flags().GetFloat64("height")
			}
			if cmd.Flags().Changed("quiet-zone") {
				opts.QuietZone, _ = cmd.Flags().GetFloat64("quiet-zone")
			}
			if cmd.Flags().Changed("font-size") {
				opts.FontSize, _ = cmd.Flags().GetInt("font-size")
			}
			if cmd.Flags().Changed("text-distance") {
				opts.TextDistance, _ = cmd.Flags().GetFloat64("text-distance")
			}
			if cmd.Flags().Changed("foreground") {
				opts.Foreground, _ = cmd.Flags().GetString("foreground")
			}
			if cmd.Flags().Changed("background") {
				opts.Background, _ = cmd.Flags().GetString("background")
			}
			pngData, err = render.Barcode(spec, data, opts)
		}
		if err != nil {
			return err
		}

		if err := os.WriteFile(output, pngData, 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", output, spec.Format, len(pngData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("data", "d", "", "data to encode")
	generateCmd.Flags().StringP("format", "f", "code128", "code format (see 'barq formats')")
	generateCmd.Flags().StringP("output", "o", "", "output PNG file path")
	// 1D styling flags
	generateCmd.Flags().Float64("width", 2.0, "module width in pixels")
	generateCmd.Flags().Float64("height", 15.0, "bar height in millimeters")
	generateCmd.Flags().Float64("quiet-zone", 6.5, "quiet zone width in modules")
	generateCmd.Flags().Int("font-size", 10, "label font size (0 disables the text label)")
	generateCmd.Flags().Float64("text-distance", 5.0, "distance between bars and label")
	// QR styling flags
	generateCmd.Flags().String("error-correction", "M", "QR error correction level (L, M, Q, H)")
	generateCmd.Flags().Int("box-size", 10, "QR pixels per module")
	generateCmd.Flags().Int("border", 4, "QR border width in modules")
	// Shared colors
	generateCmd.Flags().String("foreground", "black", "foreground color (name or #RRGGBB)")
	generateCmd.Flags().String("background", "white", "background color (name or #RRGGBB)")
}
