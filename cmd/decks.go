package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List available decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := loadDecks(loadAnalyzer())
		if err != nil {
			return err
		}
		decks, err := source.ListDecks(cmd.Context())
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		rows := make([][]string, 0, len(decks))
		for _, d := range decks {
			rows = append(rows, []string{d.ID, d.Name, strconv.Itoa(d.WordCount), d.Origin})
		}
		fmt.Println(renderTable(
			[]string{"ID", "Name", "Words", "Source"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}
