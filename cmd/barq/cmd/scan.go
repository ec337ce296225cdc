package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/barq/internal/scan"
)

const (
	outputFormatText = "text"
	outputFormatJSON = "json"
	outputFormatYAML = "yaml"
)

// scanFileReport is the per-file result structure for json/yaml output.
type scanFileReport struct {
	File       string        `json:"file" yaml:"file"`
	CodesFound int           `json:"codes_found" yaml:"codes_found"`
	Results    []scan.Result `json:"results" yaml:"results"`
}

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan images for barcodes and QR codes",
	Long: `Scan one or more image files and report every code found.

Supported formats: JPEG, PNG, GIF, BMP

Examples:
  barq scan photo.jpg
  barq scan *.png --format json
  barq scan label.png --format yaml --output results.yaml`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case outputFormatText, outputFormatJSON, outputFormatYAML:
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml)", format)
		}

		cfg := GetConfig()
		decoder := scan.NewDecoder(scan.Options{
			TryHarder:    cfg.Scan.TryHarder,
			Multi:        cfg.Scan.Multi,
			MaxDimension: cfg.Scan.MaxImageDim,
		})

		reports := make([]scanFileReport, 0, len(args))
		for _, path := range args {
			imageData, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			img, _, err := image.Decode(bytes.NewReader(imageData))
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}

			results, err := decoder.Decode(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("failed to scan %s: %w", path, err)
			}

			reports = append(reports, scanFileReport{
				File:       path,
				CodesFound: len(results),
				Results:    results,
			})
		}

		rendered, err := renderScanReports(reports, format)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			if err := os.WriteFile(output, []byte(rendered), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

// renderScanReports serializes the reports in the requested format.
func renderScanReports(reports []scanFileReport, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal results: %w", err)
		}
		return string(data) + "\n", nil
	case outputFormatYAML:
		data, err := yaml.Marshal(reports)
		if err != nil {
			return "", fmt.Errorf("failed to marshal results: %w", err)
		}
		return string(data), nil
	default:
		var b strings.Builder
		for _, report := range reports {
			fmt.Fprintf(&b, "%s: %d code(s)\n", report.File, report.CodesFound)
			for _, result := range report.Results {
				fmt.Fprintf(&b, "  [%s] %s\n", result.Type, result.Data)
			}
		}
		return b.String(), nil
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
	scanCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
}
