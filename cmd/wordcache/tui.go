package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/wordcache/pkg/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show terminal UI",
		Long:  `Display an interactive terminal UI for adding, searching and reviewing words.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			return tui.ShowTUI(ws.session, ws.db)
		},
	}
}
