package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kotoba-app/kotoba/internal/store"
)

var speechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Inspect speech provider requests",
}

var speechListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent speech requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QuerySpeechEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var rows [][]string
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				e.Provider,
				truncate(e.Model, 28),
				strconv.Itoa(e.AudioBytes),
				strconv.FormatInt(e.LatencyMs, 10),
				okMark(e.Success),
				truncate(e.Transcript, 20),
			})
		}
		if len(rows) == 0 {
			fmt.Println("No speech events found.")
			return nil
		}

		fmt.Println(renderTable(
			[]string{"ID", "Timestamp", "Purpose", "Provider", "Model", "Bytes", "Ms", "OK", "Transcript"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
		return nil
	},
}

var speechViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one speech request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().GetSpeechEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event %d: %w", id, err)
		}

		fmt.Printf("ID:          %d\n", e.ID)
		fmt.Printf("Time:        %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:    %s\n", e.Provider)
		fmt.Printf("Model:       %s\n", e.Model)
		fmt.Printf("Purpose:     %s\n", e.Purpose)
		fmt.Printf("Audio:       %d bytes\n", e.AudioBytes)
		fmt.Printf("Latency:     %dms\n", e.LatencyMs)
		fmt.Printf("Success:     %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:       %s\n", e.ErrorMessage)
		}
		if e.Transcript != "" {
			fmt.Printf("Transcript:  %s\n", e.Transcript)
		}
		return nil
	},
}

var speechStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated speech usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.EventRepo().SpeechUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No speech usage recorded yet.")
			return nil
		}

		var rows [][]string
		var calls, failures, audio int
		for _, s := range stats {
			rows = append(rows, []string{
				s.Purpose,
				strconv.Itoa(s.Calls),
				strconv.Itoa(s.Failures),
				strconv.Itoa(s.AudioBytes),
				strconv.FormatInt(s.AvgLatencyMs, 10),
			})
			calls += s.Calls
			failures += s.Failures
			audio += s.AudioBytes
		}
		rows = append(rows, []string{"TOTAL", strconv.Itoa(calls), strconv.Itoa(failures), strconv.Itoa(audio), ""})

		fmt.Println(renderTable(
			[]string{"Purpose", "Calls", "Failures", "Audio bytes", "Avg ms"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
		))
		return nil
	},
}

func init() {
	speechListCmd.Flags().Int("limit", 20, "maximum number of events")
	speechListCmd.Flags().String("purpose", "", "filter by purpose (pronunciation, tts)")

	speechCmd.AddCommand(speechListCmd)
	speechCmd.AddCommand(speechViewCmd)
	speechCmd.AddCommand(speechStatsCmd)
}

func okMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
