package vocab

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/kana"
)

//go:embed decks/*.yaml
var builtinDecks embed.FS

type deck struct {
	info  DeckInfo
	words []Word
}

// DirSource serves the built-in decks plus every *.yaml, *.yml and *.csv
// file in a directory. A user deck with the same ID as a built-in one
// replaces it.
type DirSource struct {
	decks    map[string]*deck
	analyzer ReadingAnalyzer
	logger   *zap.Logger
}

// Option configures a DirSource.
type Option func(*DirSource)

// WithAnalyzer fills in missing readings using a.
func WithAnalyzer(a ReadingAnalyzer) Option {
	return func(s *DirSource) { s.analyzer = a }
}

// WithLogger sets the logger used for skipped words and decks.
func WithLogger(l *zap.Logger) Option {
	return func(s *DirSource) { s.logger = l }
}

// LoadDir loads the built-in decks and the decks in dir. An empty dir or
// a directory that does not exist yields only the built-in decks.
func LoadDir(dir string, opts ...Option) (*DirSource, error) {
	s := &DirSource{
		decks:  make(map[string]*deck),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.loadFS(builtinDecks, "decks", "builtin"); err != nil {
		return nil, fmt.Errorf("load builtin decks: %w", err)
	}

	if dir == "" {
		return s, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("deck directory missing", zap.String("dir", dir))
			return s, nil
		}
		return nil, fmt.Errorf("stat deck dir: %w", err)
	}
	if err := s.loadFS(os.DirFS(dir), ".", dir); err != nil {
		return nil, fmt.Errorf("load decks from %s: %w", dir, err)
	}
	return s, nil
}

func (s *DirSource) loadFS(fsys fs.FS, root, origin string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" && ext != ".csv" {
			continue
		}

		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		var df deckFile
		if ext == ".csv" {
			df, err = parseCSVDeck(name, data)
		} else {
			df, err = parseYAMLDeck(name, data)
		}
		if err != nil {
			return err
		}

		fileOrigin := origin
		if origin != "builtin" {
			fileOrigin = filepath.Join(origin, name)
		}
		s.addDeck(df, fileOrigin)
	}
	return nil
}

func (s *DirSource) addDeck(df deckFile, origin string) {
	if prev, ok := s.decks[df.ID]; ok {
		s.logger.Info("deck replaced",
			zap.String("deck", df.ID),
			zap.String("previous", prev.info.Origin),
			zap.String("origin", origin))
	}

	d := &deck{info: DeckInfo{
		ID:          df.ID,
		Name:        df.Name,
		Description: df.Description,
		Origin:      origin,
	}}

	seen := make(map[string]bool)
	for _, wf := range df.Words {
		w, ok := s.buildWord(df.ID, wf)
		if !ok {
			continue
		}
		if seen[w.ID] {
			s.logger.Warn("duplicate word id skipped",
				zap.String("deck", df.ID), zap.String("word", w.ID))
			continue
		}
		seen[w.ID] = true
		d.words = append(d.words, w)
	}
	d.info.WordCount = len(d.words)
	s.decks[df.ID] = d
}

func (s *DirSource) buildWord(deckID string, wf wordFile) (Word, bool) {
	w := Word{
		ID:      strings.TrimSpace(wf.ID),
		Text:    strings.TrimSpace(wf.Text),
		Reading: strings.TrimSpace(wf.Reading),
		Meaning: strings.TrimSpace(wf.Meaning),
		DeckID:  deckID,
	}
	if w.Text == "" {
		s.logger.Warn("word without text skipped", zap.String("deck", deckID))
		return Word{}, false
	}
	if w.ID == "" {
		w.ID = w.Text
	}

	if w.Reading == "" {
		switch {
		case kana.IsKana(w.Text):
			w.Reading = w.Text
		case s.analyzer != nil:
			if r, ok := s.analyzer.Reading(w.Text); ok {
				w.Reading = r
			}
		}
	}
	if w.Reading == "" {
		s.logger.Warn("word without reading skipped",
			zap.String("deck", deckID), zap.String("word", w.Text))
		return Word{}, false
	}
	return w, true
}

func (s *DirSource) ListDecks(_ context.Context) ([]DeckInfo, error) {
	out := make([]DeckInfo, 0, len(s.decks))
	for _, d := range s.decks {
		out = append(out, d.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DirSource) ListWords(_ context.Context, deckID string) ([]Word, error) {
	d, ok := s.decks[deckID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, deckID)
	}
	out := make([]Word, len(d.words))
	copy(out, d.words)
	return out, nil
}
