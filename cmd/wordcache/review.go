package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/wordcache/pkg/words"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection totals",
		Long:  `Show the total number of words, how many are mastered, and how many were added in the last seven days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			stats := ws.session.Stats()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stats as JSON")
	return cmd
}

func newReviewCmd(a *app) *cobra.Command {
	var id string
	var master bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show a word to review",
		Long: `Pick a word to review: the one given with --id, or a random word.
With --master the reviewed word is flipped between learning and mastered and the next
random word is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := cmd.OutOrStdout()
			if id != "" {
				if _, ok := ws.session.Get(id); !ok {
					return fmt.Errorf("word not found: %s", id)
				}
				ws.session.SelectByID(id)
			} else {
				ws.session.SelectRandom()
			}
			fmt.Fprintln(out, ws.session.CurrentText())

			if !master || ws.session.Reviewer().IsEmpty() {
				return nil
			}

			reviewed, _ := ws.session.Reviewer().Current()
			if err := ws.session.MarkSubjectMastered(cmd.Context()); err != nil {
				return fmt.Errorf("failed to mark word: %w", err)
			}
			updated, _ := ws.session.Get(reviewed.ID)
			fmt.Fprintf(out, "%s is now %s\n", updated.Word, words.Card(updated).Status)
			fmt.Fprintf(out, "Next: %s\n", ws.session.CurrentText())
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "ID of the word to review (random if empty)")
	cmd.Flags().BoolVar(&master, "master", false, "Toggle the mastered status of the reviewed word")
	return cmd
}
