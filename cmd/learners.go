package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/store"
)

var learnersCmd = &cobra.Command{
	Use:   "learners",
	Short: "Inspect stored learners",
}

var learnersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every learner in the save record",
	RunE: func(cmd *cobra.Command, args []string) error {
		var persona learner.Persona
		if s, _ := cmd.Flags().GetString("persona"); s != "" {
			p, err := learner.ParsePersona(s)
			if err != nil {
				return err
			}
			persona = p
		}

		e, repo, err := setupRecords(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		printLearners(cmd.OutOrStdout(), repo.Snapshot(), persona)
		return nil
	},
}

var learnersShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one learner's profile and course progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, repo, err := setupRecords(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		entry, ok := repo.Get(learner.NameKey(args[0]))
		if !ok {
			return fmt.Errorf("learner %q: %w", args[0], store.ErrNotFound)
		}
		printEntry(cmd.OutOrStdout(), entry)
		return nil
	},
}

func init() {
	learnersListCmd.Flags().String("persona", "", "Only show one persona (student, professional or curious)")

	learnersCmd.AddCommand(learnersListCmd)
	learnersCmd.AddCommand(learnersShowCmd)
}

// printLearners writes one row per learner. An empty persona lists everyone.
func printLearners(w io.Writer, rec *store.Record, persona learner.Persona) {
	names := rec.Names()
	if persona != "" {
		names = lo.Filter(names, func(n string, _ int) bool {
			return rec.Users[n].Profile.Persona == persona
		})
	}
	if len(names) == 0 {
		if persona != "" {
			fmt.Fprintf(w, "No learners with persona %s.\n", persona)
			return
		}
		fmt.Fprintln(w, "No learners yet.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-16s  %5s  %7s  %s\n", "Name", "Persona", "Level", "XP", "Course")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, n := range names {
		e := rec.Users[n]
		progress := "-"
		if c := e.Course; c != nil {
			progress = fmt.Sprintf("%d/%d %s", c.CompletedCount(), len(c.Modules), truncate(c.Topic, 24))
		}
		fmt.Fprintf(w, "%-20s  %-16s  %5d  %7d  %s\n",
			truncate(n, 20), e.Profile.Persona, e.Profile.Level, e.Profile.XP, progress)
	}
}

func printEntry(w io.Writer, e store.Entry) {
	p := e.Profile
	fmt.Fprintf(w, "Name:      %s\n", p.Name)
	fmt.Fprintf(w, "Persona:   %s\n", p.Persona)
	fmt.Fprintf(w, "Language:  %s\n", p.Language)
	fmt.Fprintf(w, "Goal:      %s\n", p.Goal)
	fmt.Fprintf(w, "Level:     %d (%d XP, %d to next)\n", p.Level, p.XP, p.XPToNextLevel())

	c := e.Course
	if c == nil {
		fmt.Fprintln(w, "\nNo course generated yet.")
		return
	}
	fmt.Fprintf(w, "\nCourse:    %s\n", c.Topic)
	fmt.Fprintf(w, "Progress:  %d of %d modules (%.0f%%)\n", c.CompletedCount(), len(c.Modules), c.Percent()*100)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for i, m := range c.Modules {
		fmt.Fprintf(w, "%s  %d. %s\n", m.Status.Icon(), i+1, m.Title)
	}
}
