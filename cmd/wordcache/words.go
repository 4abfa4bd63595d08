package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/wordcache/pkg/words"
)

func newWordsCmd(a *app) *cobra.Command {
	wordsCmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the word collection",
		Long:  `Add, list, edit, toggle, and delete words in the collection.`,
	}

	wordsCmd.AddCommand(
		newAddWordCmd(a),
		newListWordsCmd(a),
		newGetWordCmd(a),
		newEditWordCmd(a),
		newToggleWordCmd(a),
		newDeleteWordCmd(a),
		newResetWordsCmd(a),
	)
	return wordsCmd
}

func newAddWordCmd(a *app) *cobra.Command {
	var word, meaning, usage, tags string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a word",
		Long:  `Add a word with an optional meaning, usage example and comma-separated tags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			entry, err := ws.session.Add(cmd.Context(), word, meaning, usage, tags)
			if errors.Is(err, words.ErrEmptyWord) {
				return errors.New("word is required")
			}
			if err != nil {
				return fmt.Errorf("failed to add word: %w", err)
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVarP(&word, "word", "w", "", "The word or phrase (required)")
	cmd.Flags().StringVarP(&meaning, "meaning", "m", "", "Meaning")
	cmd.Flags().StringVarP(&usage, "usage", "u", "", "Usage example or context")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-separated tags")
	return cmd
}

func newListWordsCmd(a *app) *cobra.Command {
	var search, filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List words, newest first",
		Long: `List words, newest first. --search matches the word, meaning and tags
case-insensitively; --filter keeps all, active or mastered words.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, err := words.ParseStatusFilter(filter)
			if err != nil {
				return err
			}

			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			view := ws.session.FilteredView(search, statusFilter)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printWordList(cmd.OutOrStdout(), view, ws.session.Stats().Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Search term")
	cmd.Flags().StringVarP(&filter, "filter", "f", string(words.FilterAll), "Status filter: all, active, mastered")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the words as JSON")
	return cmd
}

func newGetWordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [word-id]",
		Short: "Show a word by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			entry, ok := ws.session.Get(args[0])
			if !ok {
				return fmt.Errorf("word not found: %s", args[0])
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

func newEditWordCmd(a *app) *cobra.Command {
	var word, meaning, usage, tags string

	cmd := &cobra.Command{
		Use:   "edit [word-id]",
		Short: "Edit a word's text and tags",
		Long: `Edit a word. Only the flags you pass are changed; --tags replaces every tag.
The creation date and mastered status are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("word") && !flags.Changed("meaning") && !flags.Changed("usage") && !flags.Changed("tags") {
				return errors.New("no update fields provided (use --word, --meaning, --usage or --tags)")
			}

			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			current, ok := ws.session.BeginEdit(args[0])
			if !ok {
				return fmt.Errorf("word not found: %s", args[0])
			}
			if !flags.Changed("word") {
				word = current.Word
			}
			if !flags.Changed("meaning") {
				meaning = current.Meaning
			}
			if !flags.Changed("usage") {
				usage = current.Usage
			}
			if !flags.Changed("tags") {
				tags = words.JoinTags(current.Tags)
			}

			if err := ws.session.CommitEdit(cmd.Context(), word, meaning, usage, tags); err != nil {
				return fmt.Errorf("failed to edit word: %w", err)
			}
			updated, _ := ws.session.Get(args[0])
			printEntry(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&word, "word", "w", "", "New word")
	cmd.Flags().StringVarP(&meaning, "meaning", "m", "", "New meaning")
	cmd.Flags().StringVarP(&usage, "usage", "u", "", "New usage")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "New comma-separated tags")
	return cmd
}

func newToggleWordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [word-id]",
		Short: "Flip a word between learning and mastered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			if _, ok := ws.session.Get(args[0]); !ok {
				return fmt.Errorf("word not found: %s", args[0])
			}
			if err := ws.session.ToggleMastered(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to toggle word: %w", err)
			}
			entry, _ := ws.session.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", entry.Word, words.Card(entry).Status)
			return nil
		},
	}
}

func newDeleteWordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [word-id]",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			entry, ok := ws.session.Get(args[0])
			if !ok {
				return fmt.Errorf("word not found: %s", args[0])
			}
			if err := ws.session.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete word: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Word '%s' (%s) deleted.\n", entry.Word, entry.ID)
			return nil
		},
	}
}

func newResetWordsCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every word",
		Long:  `Delete every word in the collection. This cannot be undone, so --yes is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all words without --yes")
			}

			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			removed := ws.session.Stats().Total
			if err := ws.session.ResetAll(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset words: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset complete. %d word(s) removed.\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every word")
	return cmd
}
