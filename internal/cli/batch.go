package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/batch"
	"github.com/law-makers/boardid/internal/ui"
	"github.com/law-makers/boardid/internal/utils/output"
	"github.com/law-makers/boardid/pkg/models"
)

var (
	batchOutput string
	batchJSON   bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file|url|->...",
	Short: "Extract the ids of many boards",
	Long: `Extracts board ids concurrently. Arguments may be URLs, files holding one
URL per line, or - for stdin. Duplicate boards are extracted once; a failing
board never stops the others.`,
	Example: `  # One URL per line, comments allowed
  boardid batch boards.txt -o report.html

  # From another command
  cat boards.txt | boardid batch - --print-json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("mode", "m", "auto", "Extraction mode: auto, static, or live")
	batchCmd.Flags().Int("retries", 0, "Re-run a board's extraction on transport failures")
	batchCmd.Flags().IntP("concurrency", "c", 0, "Boards extracted at once (0 picks per mode)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Save the report (supports .json, .csv, .html, .md)")
	batchCmd.Flags().BoolVar(&batchJSON, "print-json", false, "Print the results as JSON on stdout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	urls, err := readURLs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	unique, _ := batch.Dedupe(urls)
	if len(unique) == 0 {
		return engine.NewEngineError(engine.ErrCodeValidation, "no board URLs given", nil)
	}

	mode := models.ExtractorMode(a.Config.Mode)
	ex, err := a.Extractor(mode)
	if err != nil {
		return err
	}
	if mode == models.ModeLive {
		if err := a.EnsureBrowserPool(cmd.Context()); err != nil {
			return engine.NewEngineError(engine.ErrCodeBrowser, "could not start Chrome", err)
		}
	}

	runner := batch.New(ex, a.Config.BatchConcurrency, mode, a.RetryConfig())
	log.Debug().Int("boards", len(unique)).Int("concurrency", runner.Concurrency()).Msg("Starting batch")

	bar := progressbar.NewOptions(len(unique),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(ui.Enabled() && !batchJSON),
		progressbar.OptionClearOnFinish(),
	)

	base := models.RequestOptions{
		Mode:    mode,
		Timeout: a.Config.ExtractTimeout,
		Proxy:   a.Config.Proxy,
	}
	results := runner.Run(cmd.Context(), urls, base, func(models.ExtractResult) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	records := output.Records(results)
	ok, failed := output.Summary(records)

	if batchOutput != "" {
		if err := output.Save(results, batchOutput); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
	}

	if batchJSON {
		if err := output.WriteJSON(os.Stdout, records); err != nil {
			return err
		}
	} else {
		for _, r := range records {
			printRecord(os.Stdout, r)
		}
		fmt.Printf("\n%s %s, %s\n", ui.Bold("Summary:"), ui.Success(fmt.Sprintf("%d found", ok)), ui.Error(fmt.Sprintf("%d failed", failed)))
		if batchOutput != "" {
			fmt.Printf("%s %s\n", ui.Dim("Report:"), ui.Value(batchOutput))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d boards failed", failed, len(records))
	}
	return nil
}
