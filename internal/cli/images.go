// internal/cli/images.go
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/pdp/internal/downloader"
	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/law-makers/pdp/internal/ui"
	"github.com/law-makers/pdp/internal/utils/headers"
	urlutil "github.com/law-makers/pdp/internal/utils/url"
)

// imagesCmd represents the images command
var imagesCmd = &cobra.Command{
	Use:   "images <url>",
	Short: "Download the gallery images of a product page",
	Long: `Extracts the product record and downloads its main image and every gallery
image with a pool of concurrent workers. Files stream straight to disk.

Images land in a sub-directory named after the product code when the page
has one.`,
	Example: `  # Download into ./images/<product code>
  pdp images https://www.next.co.uk/style/su493564/ak3912

  # Eight workers, custom directory
  pdp images https://www.next.co.uk/style/su493564/ak3912 --workers 8 -o ./gallery`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().StringP("mode", "m", "auto", "Force engine mode: auto, static, or spa")
	imagesCmd.Flags().StringP("output", "o", "./images", "Directory to save downloaded images")
	imagesCmd.Flags().Int("workers", 0, "Concurrent download workers (default from config)")
	imagesCmd.Flags().StringArrayP("header", "H", []string{}, "Custom headers for the page request")
}

func runImages(cmd *cobra.Command, args []string) error {
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

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = a.Config.ImageWorkers
	}

	p, err := a.Pipeline(mode, headerMap, nil)
	if err != nil {
		return err
	}

	res := p.Run(cmd.Context(), pageURL)
	if res.State == pipeline.StateFetchFailed {
		return fmt.Errorf("failed to fetch %s: %w", pageURL, res.Err)
	}

	images := downloader.ProductImages(res.Product)
	if len(images) == 0 {
		fmt.Fprintf(os.Stderr, "%s No images found on %s\n", ui.Info("!"), pageURL)
		return nil
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if id := strings.TrimSpace(res.Product.UniqueID); id != "" {
		outputDir = filepath.Join(outputDir, filepath.Base(id))
	}
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		absOutputDir = outputDir
	}

	log.Debug().
		Str("url", pageURL).
		Int("images", len(images)).
		Int("workers", workers).
		Str("output", absOutputDir).
		Msg("Downloading product images")

	bar := progressbar.NewOptions(len(images),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	pool := downloader.NewWorkerPool(a.Downloader, workers)
	results := pool.DownloadBatch(cmd.Context(), images, downloader.DownloadOptions{OutputDir: absOutputDir}, func(*downloader.DownloadResult) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	failed := printDownloadSummary(os.Stdout, results, absOutputDir)
	if failed > 0 {
		return fmt.Errorf("%d download(s) failed", failed)
	}
	return nil
}

// printDownloadSummary lists each download and returns the failure count
func printDownloadSummary(w io.Writer, results []*downloader.DownloadResult, outputDir string) int {
	var (
		ok, failed    int
		totalSize     int64
		totalDuration time.Duration
	)

	fmt.Fprintln(w, strings.Repeat("=", 80))
	for i, result := range results {
		if result.Success {
			ok++
			totalSize += result.Size
			totalDuration += result.Duration
			fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Success("✓"), i+1, len(results), ui.ColorWhite+filepath.Base(result.FilePath)+ui.ColorReset)
			fmt.Fprintf(w, "  %s %s  %s %v\n", ui.ColorDim+"Size:", ui.ColorWhite+formatBytes(result.Size)+ui.ColorReset, ui.ColorDim+"Duration:", result.Duration.Round(time.Millisecond))
			continue
		}
		failed++
		fmt.Fprintf(w, "%s [%d/%d] %s\n", ui.Error("✗"), i+1, len(results), ui.ColorWhite+result.URL+ui.ColorReset)
		fmt.Fprintf(w, "  %s %s\n", ui.ColorDim+"Error:", ui.Error(fmt.Sprintf("%v", result.Error)))
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintf(w, "\n%s\n", ui.Bold("Summary:"))
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Total:"+ui.ColorReset, ui.ColorWhite+fmt.Sprintf("%d images", len(results))+ui.ColorReset)
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Success:"+ui.ColorReset, ui.Success(fmt.Sprintf("%d", ok)))
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Failed:"+ui.ColorReset, ui.Error(fmt.Sprintf("%d", failed)))
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Total Size:"+ui.ColorReset, ui.ColorWhite+formatBytes(totalSize)+ui.ColorReset)
	if ok > 0 {
		avg := totalDuration / time.Duration(ok)
		fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Average Time:"+ui.ColorReset, ui.ColorWhite+avg.Round(time.Millisecond).String()+ui.ColorReset)
	}
	fmt.Fprintf(w, "  %s %s\n", ui.ColorBold+"Output Directory:"+ui.ColorReset, ui.ColorWhite+outputDir+ui.ColorReset)

	return failed
}

// formatBytes formats byte count as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
