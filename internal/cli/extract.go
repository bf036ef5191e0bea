package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/reqctx"
	"github.com/law-makers/boardid/internal/retry"
	"github.com/law-makers/boardid/internal/utils/output"
	"github.com/law-makers/boardid/pkg/models"
)

var (
	extractOutput string
	extractJSON   bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <board-url>",
	Short: "Extract the id of one board",
	Long: `Fetches the board page and tries each extraction strategy in order:
app-link meta tags, JSON-LD, the embedded hydration state, framework props
(live mode only) and finally a regular expression scan of the HTML.`,
	Example: `  # Auto mode: relays first, Chrome only when needed
  boardid extract https://www.pinterest.com/user/recipes/

  # Render in Chrome
  boardid extract pinterest.com/user/recipes --mode=live

  # Save a report
  boardid extract https://www.pinterest.com/user/recipes/ -o board.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("mode", "m", "auto", "Extraction mode: auto, static, or live")
	extractCmd.Flags().Int("retries", 0, "Re-run the whole extraction on transport failures")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Save the result (supports .json, .csv, .html, .md)")
	extractCmd.Flags().BoolVar(&extractJSON, "print-json", false, "Print the result as JSON on stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	mode := models.ExtractorMode(a.Config.Mode)
	ex, err := a.Extractor(mode)
	if err != nil {
		return err
	}

	ctx := reqctx.WithRequestContext(cmd.Context(), args[0])
	if mode == models.ModeLive {
		if err := a.EnsureBrowserPool(ctx); err != nil {
			return engine.NewEngineError(engine.ErrCodeBrowser, "could not start Chrome", err)
		}
	}

	opts := models.RequestOptions{
		URL:     args[0],
		Mode:    mode,
		Timeout: a.Config.ExtractTimeout,
		Proxy:   a.Config.Proxy,
	}

	log.Debug().Str("url", opts.URL).Str("mode", string(mode)).Str("extractor", ex.Name()).Msg("Extracting board id")

	var out *models.Outcome
	err = retry.WithRetry(ctx, a.RetryConfig(), func(attempt int) error {
		if attempt > 1 {
			log.Info().Int("attempt", attempt).Str("url", opts.URL).Msg("Retrying extraction")
		}
		var err error
		out, err = ex.Extract(ctx, opts)
		return err
	})

	res := models.ExtractResult{URL: opts.URL, Outcome: out, Duration: reqctx.GetRequestContext(ctx).Elapsed()}
	if err != nil {
		res.Error = reqctx.NewRequestError(ctx, err)
		res.ErrorText = engine.UserMessage(err)
	}
	results := []models.ExtractResult{res}

	if extractOutput != "" {
		if err := output.Save(results, extractOutput); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		log.Info().Str("file", extractOutput).Msg("Output saved")
	}

	if extractJSON {
		if err := output.WriteJSON(os.Stdout, output.Records(results)); err != nil {
			return err
		}
	} else if res.Error == nil {
		printRecord(os.Stdout, output.Records(results)[0])
	}

	return res.Error
}
