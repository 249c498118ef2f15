package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/config"
	"github.com/abhisek/learneye/internal/logging"
	"github.com/abhisek/learneye/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "learneye",
	Short: "Adaptive learning paths in your terminal",
	Long: "LearnEye builds a personalised course for any goal, teaches it module by module\n" +
		"and checks each one with a short quiz before unlocking the next.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNEYE_DB and store.path)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/learneye/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().Bool("offline", false, "Use the built-in sample course instead of a model provider")

	rootCmd.AddCommand(learnersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what every data command needs: config, logger and an open store.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store

	closeLog func()
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.closeLog != nil {
		e.closeLog()
	}
}

// setup loads config, applies flag overrides and opens the store.
func setup(cmd *cobra.Command) (*env, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e := &env{cfg: cfg, log: log, closeLog: closeLog}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	e.store, err = store.Open(dbPath, log)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("environment ready",
		zap.String("db", dbPath),
		zap.String("config", cfg.File),
		zap.String("provider", cfg.LLM.Provider))
	return e, nil
}

// setupRecords is setup plus loading the Save Record.
func setupRecords(cmd *cobra.Command) (*env, *store.SaveRecordRepo, error) {
	e, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	repo := e.store.SaveRecords()
	if err := repo.Load(cmd.Context()); err != nil {
		e.Close()
		return nil, nil, fmt.Errorf("load save record: %w", err)
	}
	return e, repo, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEARNEYE_DB, then store.path from config, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("LEARNEYE_DB") != "" {
		return store.DefaultDBPath("")
	}
	return store.DefaultDBPath(cfg.Store.Path)
}
