package weights

import (
	"context"
	"fmt"
	"strings"

	"github.com/kotoba-app/kotoba/internal/store"
)

// progressNamespaces are the key namespaces holding learner progress.
var progressNamespaces = []string{"weights", "mastery", "cumulative"}

// Reset deletes stored progress and returns the number of keys removed.
//
//   - userID and deckID: that user's weights and mastery on the deck.
//   - userID only: every weight, mastery and cumulative key of the user.
//   - deckID only: every user's weights and mastery on the deck.
//   - neither: all progress.
//
// User and deck IDs never contain ':', so the last segment of a key is
// its user.
func Reset(ctx context.Context, repo store.KVRepo, userID, deckID string) (int, error) {
	switch {
	case userID != "" && deckID != "":
		return deleteKeys(ctx, repo, []string{WeightsKey(deckID, userID), MasteryKey(deckID, userID)})

	case userID != "":
		var keys []string
		for _, ns := range progressNamespaces {
			found, err := repo.Keys(ctx, ns+":")
			if err != nil {
				return 0, fmt.Errorf("list %s keys: %w", ns, err)
			}
			for _, k := range found {
				if _, user, ok := splitKey(k); ok && user == userID {
					keys = append(keys, k)
				}
			}
		}
		return deleteKeys(ctx, repo, keys)

	case deckID != "":
		return deletePrefixes(ctx, repo, "weights:"+deckID+":", "mastery:"+deckID+":")

	default:
		prefixes := make([]string, len(progressNamespaces))
		for i, ns := range progressNamespaces {
			prefixes[i] = ns + ":"
		}
		return deletePrefixes(ctx, repo, prefixes...)
	}
}

// splitKey splits namespace:scope:user into its scope and user.
func splitKey(key string) (scope, user string, ok bool) {
	first := strings.IndexByte(key, ':')
	last := strings.LastIndexByte(key, ':')
	if first < 0 || last == first {
		return "", "", false
	}
	return key[first+1 : last], key[last+1:], true
}

func deleteKeys(ctx context.Context, repo store.KVRepo, keys []string) (int, error) {
	removed := 0
	for _, k := range keys {
		ok, err := repo.Delete(ctx, k)
		if err != nil {
			return removed, fmt.Errorf("delete %s: %w", k, err)
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func deletePrefixes(ctx context.Context, repo store.KVRepo, prefixes ...string) (int, error) {
	removed := 0
	for _, p := range prefixes {
		n, err := repo.DeletePrefix(ctx, p)
		if err != nil {
			return removed, fmt.Errorf("delete %s*: %w", p, err)
		}
		removed += n
	}
	return removed, nil
}
