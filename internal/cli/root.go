// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pdp/internal/app"
	"github.com/law-makers/pdp/internal/config"
	"github.com/law-makers/pdp/pkg/models"
)

// shutdownTimeout bounds Application.Close
const shutdownTimeout = 10 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdp",
	Short: "Extract structured product data from Next product pages",
	Long: `pdp fetches a next.co.uk product detail page and turns it into a normalized
product record: name, price, images, breadcrumb hierarchy, description, colour,
material, rating, reviews and size availability.

Records print as a table by default or can be written to JSON, JSONL, CSV,
Markdown, MongoDB, S3 or PostgreSQL with --output.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx and closes the application
// afterwards. It returns the command error so main can pick the exit code.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)

	if current != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = current.Close(closeCtx)
		current = nil
	}

	if err != nil {
		log.Error().Err(err).Msg("Command failed")
	}
	return err
}

func init() {
	// Build the application only for commands that run; -h and --version stay cheap.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		return nil
	}

	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for pdp")
	rootCmd.Flags().Bool("version", false, "Version for pdp")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}

// parseMode maps the --mode flag onto a fetch mode
func parseMode(raw string) (models.FetchMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return models.ModeAuto, nil
	case "static":
		return models.ModeStatic, nil
	case "spa":
		return models.ModeSPA, nil
	default:
		return "", fmt.Errorf("invalid mode: %s (must be auto, static, or spa)", raw)
	}
}

// appFor returns the application created for cmd
func appFor(cmd *cobra.Command) (*app.Application, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}
