package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kotoba-app/kotoba/internal/app"
	"github.com/kotoba-app/kotoba/internal/drill"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Start drilling a deck",
	Example: `  kotoba drill --deck starter
  kotoba drill --deck n5 --mode speech`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, _ := cmd.Flags().GetString("deck")
		mode, _ := cmd.Flags().GetString("mode")

		m := drill.Mode(mode)
		if !m.Valid() {
			return fmt.Errorf("unknown mode %q (want %q or %q)", mode, drill.ModeReading, drill.ModeSpeech)
		}
		return runApp(cmd, app.Options{DeckID: deck, Mode: m})
	},
}

func init() {
	drillCmd.Flags().String("deck", "", "deck ID to drill (see kotoba decks)")
	drillCmd.Flags().String("mode", string(drill.ModeReading), "reading or speech")
	_ = drillCmd.MarkFlagRequired("deck")
}
