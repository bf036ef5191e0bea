// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/app"
	"github.com/law-makers/boardid/internal/config"
)

// Version is set at build time
var Version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardid",
	Short: "Find the numeric id of a Pinterest board",
	Long: `boardid reads a Pinterest board page and recovers its numeric board id.

Pages are fetched through public CORS relays (static mode) or rendered in
headless Chrome (live mode). Auto mode tries the relays first and renders the
page only when the fetched HTML is an empty client shell.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The application is closed on every exit path, including failed commands.
func Execute(ctx context.Context) int {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	closeApp(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		return 1
	}
	return 0
}

func closeApp(cmd *cobra.Command) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.ExtractTimeout)
	defer cancel()
	_ = a.Close(ctx)
	SetApp(cmd, nil)
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
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
		log.Debug().Str("command", cmd.CommandPath()).Msg("Configuration loaded")

		SetApp(cmd, a)
		return nil
	}

	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for boardid")
	rootCmd.Flags().Bool("version", false, "Version for boardid")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}

// appFor returns the initialized application or an error for commands run
// without PersistentPreRunE (tests, misconfiguration)
func appFor(cmd *cobra.Command) (*app.Application, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}
