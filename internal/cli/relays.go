package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/hybrid"
	"github.com/law-makers/boardid/internal/pipeline"
	"github.com/law-makers/boardid/internal/secrets"
	"github.com/law-makers/boardid/internal/ui"
	urlutil "github.com/law-makers/boardid/internal/utils/url"
)

// relaysCmd groups relay inspection commands
var relaysCmd = &cobra.Command{
	Use:   "relays",
	Short: "List, probe and configure the fetch relays",
	Long: `Static extraction fetches board pages through public CORS relays, tried
in order. Relays are configured in the YAML config file; API keys for relays
that need one are kept in the OS keyring.`,
	Args: cobra.NoArgs,
	RunE: runRelaysList,
}

var relaysProbeCmd = &cobra.Command{
	Use:   "probe <board-url>",
	Short: "Fetch a page through every relay and report what came back",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelaysProbe,
}

var relaysKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage relay API keys",
}

var relaysKeySetCmd = &cobra.Command{
	Use:   "set <key-ref> <value>",
	Short: "Store an API key",
	Example: `  # Then reference it from the config file with key_ref: scraperapi
  boardid relays key set scraperapi 0123456789abcdef`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}
		if err := a.Keys.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(ui.Success("✓ Stored key " + args[0]))
		return nil
	},
}

var relaysKeyDeleteCmd = &cobra.Command{
	Use:   "delete <key-ref>",
	Short: "Remove an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}
		if err := a.Keys.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("✓ Deleted key " + args[0]))
		return nil
	},
}

var relaysKeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored key references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}
		refs, err := a.Keys.List()
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println(ui.Info("No keys stored."))
			return nil
		}
		for _, r := range refs {
			fmt.Println(r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relaysCmd)
	relaysCmd.AddCommand(relaysProbeCmd, relaysKeyCmd)
	relaysKeyCmd.AddCommand(relaysKeySetCmd, relaysKeyDeleteCmd, relaysKeyListCmd)
}

func runRelaysList(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tTYPE\tKEY\tTEMPLATE")
	for i, r := range a.Relays.Relays() {
		kind := "raw"
		if r.Envelope {
			kind = "envelope"
		}
		key := "-"
		if r.NeedsKey() {
			key = keyState(a.Keys, r.KeyRef)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name, kind, key, r.Template)
	}
	return tw.Flush()
}

func keyState(keys *secrets.Store, ref string) string {
	if ref == "" {
		return "missing key_ref"
	}
	_, err := keys.Get(ref)
	switch {
	case err == nil:
		return ref + " (stored)"
	case errors.Is(err, secrets.ErrNotFound):
		return ref + " (not set)"
	default:
		return ref + " (unavailable)"
	}
}

func runRelaysProbe(cmd *cobra.Command, args []string) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}

	target, err := engine.CheckTarget(args[0], a.Config.DomainMarker)
	if err != nil {
		return err
	}
	target = urlutil.Canonicalize(target)

	res, fetchErr := a.Relays.Fetch(cmd.Context(), target)
	if res != nil {
		for _, at := range res.Attempts {
			status := ui.Success("ok")
			if at.Err != nil {
				status = ui.Error(at.Err.Error())
			}
			fmt.Printf("  %-12s %8d chars  %8s  %s\n", at.Relay, at.Chars, at.Duration.Round(time.Millisecond), status)
		}
	}
	if fetchErr != nil {
		return fetchErr
	}

	fmt.Printf("\n%s %s (%d chars)\n", ui.Bold("Chosen:"), ui.Value(res.Relay), len([]rune(res.Body)))
	if pipeline.DetectLoginWall(res.Body) {
		fmt.Println(ui.Warn("The page looks like a login wall; the board may be private"))
	}
	if fw := hybrid.DetectJavaScriptFramework(res.Body); fw != "" && hybrid.LooksUnrendered(res.Body) {
		fmt.Println(ui.Info("The page is an unrendered " + fw + " shell; try --mode=live"))
	}
	return nil
}
