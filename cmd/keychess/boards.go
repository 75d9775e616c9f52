package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DrJosh9000/keychess/internal/board"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the board presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, n := range board.Names() {
			p, err := board.Lookup(n)
			if err != nil {
				return err
			}
			mark := " "
			if n == board.Default {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %-18s %s\n", mark, n, p.Description)
			fmt.Fprintf(w, "    keypad drive %s, sense %s\n",
				strings.Join(p.Keypad.Drive, " "), strings.Join(p.Keypad.Sense, " "))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "keychess", version)
	},
}
