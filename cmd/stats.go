package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID, _ := cmd.Flags().GetString("deck")
		top, _ := cmd.Flags().GetInt("top")
		ctx := cmd.Context()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		source, err := loadDecks(loadAnalyzer())
		if err != nil {
			return err
		}

		user := rt.cfg.User
		kv := st.KVRepo()
		fmt.Printf("Progress for %s\n\n", user)

		// Cumulative counters per test kind.
		var rows [][]string
		for _, mode := range []drill.Mode{drill.ModeReading, drill.ModeSpeech} {
			c := weights.NewKVStore(kv, weights.Scope{TestKind: string(mode)}, rt.logger).LoadCumulative(ctx, user)
			rows = append(rows, []string{string(mode), strconv.Itoa(c.Correct), strconv.Itoa(c.Total), percent(c.Correct, c.Total)})
		}
		fmt.Println(renderTable(
			[]string{"Test", "Correct", "Total", "Accuracy"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
		))

		if deckID != "" {
			return printDeckDetail(ctx, source, st.EventRepo(), kv, deckID, top)
		}

		decks, err := source.ListDecks(ctx)
		if err != nil {
			return err
		}
		rows = rows[:0]
		for _, d := range decks {
			words, err := source.ListWords(ctx, d.ID)
			if err != nil {
				return err
			}
			ws := weights.NewKVStore(kv, weights.Scope{DeckID: d.ID}, rt.logger)
			p := summarizeDeck(words, ws.Load(ctx, user), ws.LoadMastery(ctx, user), rt.cfg.Drill.MasteryThreshold)
			rows = append(rows, []string{d.ID, strconv.Itoa(len(words)), strconv.Itoa(p.seen), strconv.Itoa(p.mastered)})
		}
		fmt.Println()
		fmt.Println(renderTable(
			[]string{"Deck", "Words", "Seen", "Mastered"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
		))
		return nil
	},
}

func init() {
	statsCmd.Flags().String("deck", "", "show per-word detail for one deck")
	statsCmd.Flags().Int("top", 10, "number of heaviest words to show with --deck")
}

type deckProgress struct {
	seen     int
	mastered int
}

func summarizeDeck(words []vocab.Word, w weights.Weights, m weights.MasteryCounts, threshold int) deckProgress {
	var p deckProgress
	for _, word := range words {
		if _, ok := w[word.ID]; ok {
			p.seen++
		}
		if m[word.ID].Correct >= threshold {
			p.mastered++
		}
	}
	return p
}

// heaviest returns words ordered by descending weight, ties by word ID.
// Words without a stored weight count as the baseline.
func heaviest(words []vocab.Word, w weights.Weights, baseline float64, n int) []drill.WeightedWord {
	out := make([]drill.WeightedWord, 0, len(words))
	for _, word := range words {
		weight, ok := w[word.ID]
		if !ok {
			weight = baseline
		}
		out = append(out, drill.WeightedWord{Word: word, Weight: weight})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Word.ID < out[j].Word.ID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func printDeckDetail(ctx context.Context, source vocab.Source, events store.EventRepo, kv store.KVRepo, deckID string, top int) error {
	user := rt.cfg.User
	words, err := source.ListWords(ctx, deckID)
	if err != nil {
		return err
	}

	ws := weights.NewKVStore(kv, weights.Scope{DeckID: deckID}, rt.logger)
	mastery := ws.LoadMastery(ctx, user)
	accuracy, err := events.WordAccuracy(ctx, user, deckID)
	if err != nil {
		return fmt.Errorf("query word accuracy: %w", err)
	}

	var rows [][]string
	for _, ww := range heaviest(words, ws.Load(ctx, user), rt.cfg.Drill.Baseline, top) {
		mc := mastery[ww.Word.ID]
		acc := accuracy[ww.Word.ID]
		rows = append(rows, []string{
			ww.Word.Text,
			ww.Word.Reading,
			strconv.FormatFloat(ww.Weight, 'g', 4, 64),
			strconv.Itoa(mc.Correct),
			strconv.Itoa(mc.Incorrect),
			percent(acc.Correct, acc.Attempts),
		})
	}

	fmt.Printf("\nHeaviest words in %s\n", deckID)
	fmt.Println(renderTable(
		[]string{"Word", "Reading", "Weight", "Correct", "Incorrect", "Logged accuracy"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	return nil
}
