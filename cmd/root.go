package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kotoba-app/kotoba/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Adaptive Japanese vocabulary drills",
	Long: "kotoba is a terminal vocabulary trainer for Japanese. Words you miss come back more often, " +
		"words you know fade into the background. Answer by typing the reading or by saying the word aloud.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "SQLite path or postgres:// DSN (overrides KOTOBA_DB)")
	pf.String("config", "", "config file (default $XDG_CONFIG_HOME/kotoba/config.yaml)")
	pf.String("user", "", "learner whose progress is used (overrides KOTOBA_USER)")
	pf.String("decks", "", "directory of deck files (overrides KOTOBA_DECKS_DIR)")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(decksCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(speechCmd)
	rootCmd.AddCommand(versionCmd)
}
