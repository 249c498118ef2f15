package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/app"
	"github.com/abhisek/learneye/internal/content"
	"github.com/abhisek/learneye/internal/llm"
	"github.com/abhisek/learneye/internal/screens/shared"
	"github.com/abhisek/learneye/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, repo, err := setupRecords(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	llmCfg := e.cfg.LLM
	offline, _ := cmd.Flags().GetBool("offline")
	if !offline {
		if err := llmCfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Using the built-in sample course. Set GEMINI_API_KEY (or another provider key) for real paths.")
			offline = true
		}
	}
	if offline {
		llmCfg.Provider = llm.ProviderMock
		llmCfg.Mock = content.NewOfflineProvider()
	}

	provider, err := llm.NewProvider(ctx, llmCfg, e.store.EventRepo(), e.log)
	if err != nil {
		return fmt.Errorf("build LLM provider: %w", err)
	}
	e.log.Info("starting", zap.String("provider", llmCfg.Provider), zap.String("model", provider.ModelID()))

	gen := content.NewGenerator(provider, e.cfg.Content, e.log)
	deps := shared.Deps{
		Ctrl:  session.NewController(repo, gen, e.cfg.Course, e.log),
		Tutor: content.NewTutor(provider, e.cfg.Content, e.log),
		Log:   e.log,
	}
	return app.Run(ctx, deps)
}
