// internal/cli/batch.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/pdp/internal/engine/batch"
	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/law-makers/pdp/internal/ui"
	"github.com/law-makers/pdp/internal/utils/headers"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Extract product records from many product pages",
	Long: `Runs every URL through the same fetch and extract pipeline and sends all
records to one output.

URLs come from the arguments and from --file (one per line, blank lines and
lines starting with # are skipped). Each URL is independent: a failed fetch is
reported and the batch moves on. The command exits non-zero when any URL failed.`,
	Example: `  # Extract a list of pages into one JSON array
  pdp batch --file urls.txt -o products.json

  # Four pages at a time, streamed as JSON lines
  pdp batch --file urls.txt --concurrency 4 -o products.jsonl

  # URLs on the command line
  pdp batch https://www.next.co.uk/style/st1/a1 https://www.next.co.uk/style/st2/b2`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addPipelineFlags(batchCmd)

	batchCmd.Flags().StringP("file", "f", "", "File with one product URL per line")
	batchCmd.Flags().Int("concurrency", 1, "Pages processed at once (0 = auto)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	urls := append([]string{}, args...)
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open url file: %w", err)
		}
		fromFile, err := readURLs(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read url file: %w", err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or with --file")
	}
	for _, u := range urls {
		if err := urlutil.ValidateURL(u); err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
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

	b := batch.New(p, a.Config.Concurrency)
	log.Debug().
		Int("urls", len(urls)).
		Int("concurrency", b.Concurrency()).
		Str("mode", string(mode)).
		Msg("Starting batch")

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	results, sum := b.Run(cmd.Context(), urls, func(*pipeline.Result) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	if err := out.Close(cmd.Context()); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printBatchSummary(os.Stderr, results, sum, len(urls), target)

	if sum.FetchFailed+sum.EmitFailed > 0 || sum.Total < len(urls) {
		return fmt.Errorf("%d of %d URL(s) failed", len(urls)-(sum.Done-sum.EmitFailed), len(urls))
	}
	return nil
}

// readURLs returns the non-blank, non-comment lines of r
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func printBatchSummary(w io.Writer, results []*pipeline.Result, sum batch.Summary, requested int, target string) {
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", ui.Error("✗"), ui.ColorWhite+res.URL+ui.ColorReset)
		label := "Output error:"
		if pipeline.IsFetchFailure(res.Err) {
			label = "Fetch error:"
		}
		fmt.Fprintf(w, "  %s %s\n", ui.ColorDim+label+ui.ColorReset, ui.Error(res.Err.Error()))
	}

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Summary:"))
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Total:"+ui.ColorReset, ui.ColorWhite+fmt.Sprintf("%d URLs", requested)+ui.ColorReset)
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Extracted:"+ui.ColorReset, ui.Success(fmt.Sprintf("%d", sum.Done-sum.EmitFailed)))
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Fetch failed:"+ui.ColorReset, ui.Error(fmt.Sprintf("%d", sum.FetchFailed)))
	if sum.EmitFailed > 0 {
		fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Output failed:"+ui.ColorReset, ui.Error(fmt.Sprintf("%d", sum.EmitFailed)))
	}
	if skipped := requested - sum.Total; skipped > 0 {
		fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Skipped:"+ui.ColorReset, ui.Info(fmt.Sprintf("%d", skipped)))
	}
	if target != "" && target != "-" {
		fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Output:"+ui.ColorReset, ui.ColorWhite+target+ui.ColorReset)
	}
}
