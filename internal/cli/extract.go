// internal/cli/extract.go
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/law-makers/pdp/internal/ui"
	"github.com/law-makers/pdp/internal/utils/headers"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract the product record from one product page",
	Long: `Fetches a single Next product detail page and extracts its product record.

The fetcher auto-detects whether the page needs a headless browser, or you can
force a specific engine with --mode. A failed fetch exits non-zero and emits
nothing; missing fields are never an error and come out empty.`,
	Example: `  # Print the record as a table
  pdp extract https://www.next.co.uk/style/su493564/ak3912

  # Force the headless browser
  pdp extract https://www.next.co.uk/style/su493564/ak3912 --mode=spa

  # Save the record to JSON
  pdp extract https://www.next.co.uk/style/su493564/ak3912 -o product.json

  # Insert into MongoDB
  pdp extract https://www.next.co.uk/style/su493564/ak3912 -o mongodb://localhost:27017

  # Add custom headers
  pdp extract https://www.next.co.uk/style/su493564/ak3912 -H "Cookie: consent=1"`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addPipelineFlags(extractCmd)
}

// addPipelineFlags registers the flags shared by extract and batch
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mode", "m", "auto", "Force engine mode: auto, static, or spa")
	cmd.Flags().StringP("output", "o", "", "Output target: .json, .jsonl, .csv, .md file, mongodb://, s3:// or postgres:// URL (default: table on stdout)")
	cmd.Flags().StringArrayP("header", "H", []string{}, "Custom headers (e.g., -H \"Cookie: consent=1\")")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pageURL := args[0]
	if err := urlutil.ValidateURL(pageURL); err != nil {
		return err
	}

	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := parseMode(modeFlag)
	if err != nil {
		return err
	}

	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	headerMap, err := headers.ParseHeaders(rawHeaders)
	if err != nil {
		return err
	}

	target, _ := cmd.Flags().GetString("output")
	out, err := a.OpenSink(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	p, err := a.Pipeline(mode, headerMap, out)
	if err != nil {
		_ = out.Close(cmd.Context())
		return err
	}

	log.Debug().Str("url", pageURL).Str("mode", string(mode)).Msg("Extracting product")
	res := p.Run(cmd.Context(), pageURL)

	if err := out.Close(cmd.Context()); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	if res.State == pipeline.StateFetchFailed {
		return fmt.Errorf("failed to fetch %s: %w", pageURL, res.Err)
	}
	if res.Err != nil {
		return res.Err
	}

	if target != "" && target != "-" {
		fmt.Fprintf(os.Stderr, "%s Saved %s to %s\n", ui.Success("✓"), ui.Bold(res.URL), target)
	}
	return nil
}
