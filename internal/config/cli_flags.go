package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Write logs as JSON to stderr")
	cmd.PersistentFlags().String("config", "", "Path to YAML configuration file (default ./"+DefaultConfigFile+" if present)")
	cmd.PersistentFlags().String("env-file", "", "Path to .env file (default ./"+DefaultEnvFile+" if present)")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy for the browser (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", DefaultExtractTimeout.String(), "Hard timeout for one extraction")
	cmd.PersistentFlags().String("relay-timeout", DefaultRelayTimeout.String(), "Timeout for each relay attempt")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("chrome-path", "", "Path to the Chrome/Chromium binary")
	cmd.PersistentFlags().Int("min-digits", DefaultMinDigits, "Shortest accepted board id")
	cmd.PersistentFlags().Int("pool-size", DefaultBrowserPoolSize, "Number of browser tabs kept for live extraction")
	cmd.PersistentFlags().Bool("headful", false, "Show the browser window during live extraction")
}
