package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/marcus/charnotes/internal/host"
	"github.com/marcus/charnotes/internal/notes"
	"github.com/marcus/charnotes/internal/panel"
)

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var asJSON, color bool
	cmd := &cobra.Command{
		Use:   "dump [character]",
		Short: "Print stored notes",
		Long:  longDump,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, store, _, cleanup, err := openStore(ctx, opts, host.Nop)
			if err != nil {
				return err
			}
			defer cleanup()

			if asJSON {
				var char string
				if len(args) > 0 {
					char = args[0]
				}
				data, err := store.Export(char)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), data, color)
			}

			chars := args
			if len(chars) == 0 {
				if chars, err = store.Characters(); err != nil {
					return err
				}
			}
			return dump(cmd.OutOrStdout(), store, chars)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored document as JSON")
	cmd.Flags().BoolVar(&color, "color", false, "highlight JSON output")
	return cmd
}

// writeJSON prints data, highlighted for a 256-colour terminal when color
// is set.
func writeJSON(w io.Writer, data []byte, color bool) error {
	if !color {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}
	if err := quick.Highlight(w, string(data)+"\n", "json", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}

// notesReader is the read side of the notes store.
type notesReader interface {
	ListFolders(charID string) ([]string, error)
	ListNotes(charID, folder string) ([]notes.Note, error)
}

func dump(w io.Writer, store notesReader, chars []string) error {
	if len(chars) == 0 {
		fmt.Fprintln(w, "No notes stored.")
		return nil
	}
	for i, char := range chars {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, char)
		folders, err := store.ListFolders(char)
		if err != nil {
			return err
		}
		for _, folder := range folders {
			list, err := store.ListNotes(char, folder)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s (%d)\n", panel.FolderLabel(folder), len(list))
			for _, n := range list {
				fmt.Fprintf(w, "    - %s\n", n.Title)
			}
		}
	}
	return nil
}

var longDump = `
Print the folders and note titles stored for a character, or for every
character when none is given.

Examples:
  charnotes dump
  charnotes dump "Aria"
  charnotes dump --json --color "Aria"
`
