package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-loans/config"
	"library-loans/library"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath  string
		seedPath string
		formula  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          "librarian",
		Short:        "Interactive catalog, patron and loan manager",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if formula != "" {
				if err := cfg.SetPenaltyFormula(formula); err != nil {
					return err
				}
			}
			if logLevel != "" {
				if err := cfg.SetLogLevel(logLevel); err != nil {
					return err
				}
			}
			if seedPath != "" {
				cfg.Seed = seedPath
			}
			logger := config.SetupLogger(cfg, cmd.ErrOrStderr())

			mgr, err := library.NewLibraryManager(library.ManagerOptions{
				Policy:     &cfg.Policy,
				JournalDSN: cfg.JournalDSN,
				Logger:     logger,
			})
			if err != nil {
				return fmt.Errorf("start library: %w", err)
			}
			defer mgr.Close()

			if cfg.Seed != "" {
				seed, err := config.LoadSeed(cfg.Seed)
				if err != nil {
					return err
				}
				applySeed(mgr, seed, logger)
			}
			logger.Debug("library ready",
				slog.String("formula", cfg.Policy.Formula.String()),
				slog.Int("grace_days", cfg.Policy.GraceDays),
			)

			return runMenu(cmd.InOrStdin(), cmd.OutOrStdout(), mgr, isTerminal(cmd.InOrStdin()))
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML file of items and patrons to load at startup")
	cmd.Flags().StringVar(&formula, "penalty-formula", "", "physical item penalty formula: proportional or flat")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// applySeed feeds the seed through the factories. Bad entries are logged and
// skipped; the counts of applied entries are returned.
func applySeed(mgr *library.LibraryManager, seed *config.Seed, logger *slog.Logger) (items, patrons int) {
	for _, si := range seed.Items {
		_, err := mgr.AddItem(si.Kind, si.Title, si.Author, si.Year, library.ItemDetails{
			Pages:      si.Pages,
			Condition:  si.Condition,
			FileSizeMB: si.FileSizeMB,
			Format:     si.Format,
		})
		if err != nil {
			logger.Warn("seed item skipped", slog.String("title", si.Title), slog.String("error", err.Error()))
			continue
		}
		items++
	}
	for _, sp := range seed.Patrons {
		if _, _, err := mgr.AddPatron(sp.Category, sp.Name, sp.Email, sp.Affiliation); err != nil {
			logger.Warn("seed patron skipped", slog.String("email", sp.Email), slog.String("error", err.Error()))
			continue
		}
		patrons++
	}
	logger.Info("seed loaded",
		slog.Int("items", items),
		slog.Int("patrons", patrons),
		slog.Int("skipped", len(seed.Items)+len(seed.Patrons)-items-patrons),
	)
	return items, patrons
}

// isTerminal reports whether prompts should be shown for r.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
