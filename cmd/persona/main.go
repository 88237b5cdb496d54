package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/persona/internal/llm"
	"github.com/cognicore/persona/pkg/persona/config"
)

// newBackend is swapped out in tests.
var newBackend = llm.NewBackend

type rootFlags struct {
	configPath string
	dbPath     string
	verbose    bool
	debug      bool
}

// app carries state shared by the subcommands once the root has run.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "persona",
		Short: "Build a user persona from public Reddit activity",
		Long: `persona fetches a Reddit user's recent posts and comments, summarizes
their activity and asks a language model for a six-part persona with
citations back to the source items.

Example:
  persona generate --url https://www.reddit.com/user/kojied/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()

			logger, err := buildLogger(a.flags.verbose, a.flags.debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger

			cfg, err := config.LoadConfig(a.flags.configPath)
			if err != nil {
				return err
			}
			if a.flags.dbPath == "" {
				a.flags.dbPath = cfg.Paths.DB
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.flags.dbPath, "db", "", "SQLite database for snapshot cache and persona history")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Informational logging and a document preview")
	pf.BoolVar(&a.flags.debug, "debug", false, "Debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newFetchCmd(a),
		newStatsCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func buildLogger(verbose, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch {
	case debug:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
