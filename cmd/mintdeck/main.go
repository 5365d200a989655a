package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mintdeck/internal/diagnostics"
	"mintdeck/internal/ui"
)

var (
	// Global flags
	configPath string
	modeFlag   string
	dbPath     string
	verbose    bool
)

// Set via -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd runs the TUI.
var rootCmd = &cobra.Command{
	Use:   "mintdeck",
	Short: "Terminal studio for minting and managing NFTs",
	Long: `mintdeck is a terminal front-end for an NFT creator studio.

Mint NFTs, browse the gallery, follow minting activity and manage the tokens
owned by your wallet. Development builds (--mode dev) add a debug tab that
loads diagnostic modules.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmdContext(cmd))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.mintdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "Build mode: production or development (or set MINTDECK_MODE)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Ledger database path (or set MINTDECK_DB)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context) error {
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := ui.Options{
		Mode:    rt.cfg.Mode,
		Web3:    rt.web3,
		Gateway: rt.cfg.IPFS.Gateway,
		Logger:  rt.logger,
	}
	if rt.cfg.Mode.IsDevelopment() {
		opts.Diagnostics = diagnostics.Defaults()
		opts.Loader = diagnostics.NewLoader(rt.logger.Named("diagnostics"), rt.exporter.Tracer("mintdeck/diagnostics"))
	}
	model := ui.NewAppModel(opts).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
