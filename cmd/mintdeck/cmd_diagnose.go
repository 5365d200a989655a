package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mintdeck/internal/artifact"
	"mintdeck/internal/config"
	"mintdeck/internal/diagnostics"
)

var errDevOnly = errors.New("diagnose is only available in development mode (--mode dev)")

var saveReports bool

// diagnoseCmd runs the diagnostic modules without the TUI.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [module...]",
	Short: "Run the development diagnostic modules and print their reports",
	Long: `Runs debug-nfts, ipfs-debug, ipfs-fix and check-nft (or the named subset)
against the ledger. A failing module is reported and logged; it does not
change the exit status.`,
	RunE: runDiagnose,
}

// reportsCmd prints the reports saved by diagnose --save.
var reportsCmd = &cobra.Command{
	Use:   "reports [module]",
	Short: "Show saved diagnostic reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := config.HomeDir()
		if err != nil {
			return err
		}
		store := artifact.NewStore(home)
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			md := store.Load(args[0])
			if md == "" {
				return fmt.Errorf("no saved report for %q", args[0])
			}
			fmt.Fprintln(out, md)
			return nil
		}
		mods, err := store.Modules()
		if err != nil {
			return err
		}
		if len(mods) == 0 {
			fmt.Fprintln(out, "No saved reports. Run `mintdeck diagnose --mode dev --save`.")
			return nil
		}
		for _, m := range mods {
			fmt.Fprintf(out, "%-12s %s\n", m, artifact.Summary(store.Load(m)))
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().BoolVar(&saveReports, "save", false, "Save each report under ~/.mintdeck/reports")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if !cfg.Mode.IsDevelopment() {
		return errDevOnly
	}
	rt, err := newRuntime(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	reg := diagnostics.Defaults()
	mods := reg.Modules()
	if len(args) > 0 {
		mods = mods[:0]
		for _, name := range args {
			m, ok := reg.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown diagnostic module %q", name)
			}
			mods = append(mods, m)
		}
	}

	loader := diagnostics.NewLoader(rt.logger.Named("diagnostics"), rt.exporter.Tracer("mintdeck/diagnostics"))
	env := diagnostics.Env{Chain: rt.web3, Gateway: rt.cfg.IPFS.Gateway}
	var store *artifact.Store
	if saveReports {
		home, err := config.HomeDir()
		if err != nil {
			return err
		}
		store = artifact.NewStore(home)
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, m := range mods {
		res := loader.Load(ctx, m, env)
		if store != nil {
			if err := store.Save(res.Module, res.Markdown()); err != nil {
				rt.logger.Warn("save diagnostic report", zap.String("module", res.Module), zap.Error(err))
			}
		}
		if !res.OK() {
			failed++
			fmt.Fprintf(out, "✗ %s (%s): %v\n", res.Module, res.Duration.Round(time.Millisecond), res.Err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s): %s\n", res.Module, res.Duration.Round(time.Millisecond), res.Report.Summary)
		for _, f := range res.Report.Findings {
			fmt.Fprintf(out, "    - %s\n", f)
		}
	}
	rt.logger.Info("diagnostics finished", zap.Int("modules", len(mods)), zap.Int("failed", failed))
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
