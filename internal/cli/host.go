package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/messaging"
	"github.com/law-makers/boardid/pkg/models"
)

// hostCmd serves the browser extension over native messaging
var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Run as the browser extension's native messaging host",
	Long: `Reads length-prefixed JSON requests on stdin and writes one response per
request on stdout. The browser starts this command; it exits when the browser
closes the pipe. Logs go to stderr.`,
	Example: `  # Request: {"action":"EXTRACT_BOARD_ID","url":"https://www.pinterest.com/user/recipes/"}
  boardid host --mode=live`,
	// the browser passes the caller origin as an argument
	Args: cobra.ArbitraryArgs,
	RunE: runHost,
}

func init() {
	rootCmd.AddCommand(hostCmd)
	hostCmd.Flags().StringP("mode", "m", "live", "Extraction mode: auto, static, or live")
}

func runHost(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	mode := models.ModeLive
	if cmd.Flags().Changed("mode") {
		mode = models.ExtractorMode(a.Config.Mode)
	}
	ex, err := a.Extractor(mode)
	if err != nil {
		return err
	}
	if mode == models.ModeLive {
		if err := a.EnsureBrowserPool(cmd.Context()); err != nil {
			// extraction still runs with a one-off browser per request
			log.Warn().Err(err).Msg("Browser pool unavailable")
		}
	}

	base := models.RequestOptions{Mode: mode, Timeout: a.Config.ExtractTimeout, Proxy: a.Config.Proxy}
	handler := messaging.NewHandler(ex, base, a.Config.ExtractTimeout)

	log.Info().Str("mode", string(mode)).Strs("args", args).Msg("Native messaging host started")
	if err := messaging.NewHost(handler).Serve(cmd.Context(), os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("native messaging stopped: %w", err)
	}
	return nil
}
