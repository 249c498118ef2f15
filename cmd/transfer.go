package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the save record as JSON (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, repo, err := setupRecords(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		w := cmd.OutOrStdout()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}
		if err := repo.Export(w); err != nil {
			return err
		}
		e.log.Info("save record exported", zap.Int("learners", len(repo.Names())))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the save record with JSON from file (- for stdin)",
	Long: "Replace the save record with a previously exported one. Every profile is\n" +
		"validated before anything is written; older record versions are migrated.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, repo, err := setupRecords(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		if force, _ := cmd.Flags().GetBool("force"); !force && len(repo.Names()) > 0 {
			return fmt.Errorf("save record already has %d learners; use --force to replace it", len(repo.Names()))
		}

		n, err := repo.Import(cmd.Context(), r)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		e.log.Info("save record imported", zap.Int("learners", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d learners.\n", n)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolP("force", "f", false, "Replace a non-empty save record")
}
