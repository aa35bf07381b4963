package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/weights"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress",
	Long:  "Delete stored weights and mastery counts. Without --deck the cumulative scores of every test kind are cleared too.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID, _ := cmd.Flags().GetString("deck")
		yes, _ := cmd.Flags().GetBool("yes")
		allUsers, _ := cmd.Flags().GetBool("all-users")
		user := rt.cfg.User
		who := user
		if allUsers {
			user = ""
			who = "every user"
		}

		what := "all progress"
		if deckID != "" {
			what = fmt.Sprintf("progress on deck %q", deckID)
		}
		if !yes && !confirm(os.Stdin, fmt.Sprintf("Reset %s for %s? [y/N] ", what, who)) {
			fmt.Println("Aborted.")
			return nil
		}

		lock, err := acquireLock()
		if err != nil {
			return err
		}
		defer lock.Release()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := weights.Reset(cmd.Context(), st.KVRepo(), user, deckID)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		rt.logger.Info("progress reset", zap.String("user", user), zap.String("deck", deckID), zap.Int("keys", n))
		fmt.Printf("Removed %d stored record(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("deck", "", "only reset this deck")
	resetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	resetCmd.Flags().Bool("all-users", false, "reset every learner, not just --user")
}

// confirm prints prompt and reports whether the answer starts with y.
func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return strings.HasPrefix(answer, "y")
}
