package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kotoba-app/kotoba/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent drill sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		user := rt.cfg.User
		if all {
			user = ""
		}
		sessions, err := st.EventRepo().QuerySessionSummaries(cmd.Context(), user, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No drill sessions recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				s.UserID,
				s.DeckID,
				s.Mode,
				strconv.Itoa(s.Rounds),
				strconv.Itoa(s.Correct),
				percent(s.Correct, s.Rounds),
				fmt.Sprintf("%d:%02d", s.DurationSecs/60, s.DurationSecs%60),
			})
		}
		fmt.Println(renderTable(
			[]string{"Finished", "User", "Deck", "Mode", "Rounds", "Correct", "Accuracy", "Duration"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of sessions")
	historyCmd.Flags().Bool("all", false, "include every user")
}
