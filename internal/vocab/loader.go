package vocab

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// deckFile is the YAML deck format.
type deckFile struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Words       []wordFile `yaml:"words"`
}

type wordFile struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	Reading string `yaml:"reading"`
	Meaning string `yaml:"meaning"`
}

// parseYAMLDeck decodes a YAML deck. The deck ID falls back to the file
// name without extension.
func parseYAMLDeck(name string, data []byte) (deckFile, error) {
	var d deckFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return deckFile{}, fmt.Errorf("decode %s: %w", name, err)
	}
	if d.ID == "" {
		d.ID = deckIDFromName(name)
	}
	if strings.ContainsRune(d.ID, ':') {
		return deckFile{}, fmt.Errorf("decode %s: deck id %q must not contain ':'", name, d.ID)
	}
	if d.Name == "" {
		d.Name = d.ID
	}
	return d, nil
}

// parseCSVDeck decodes a CSV deck with a header row naming the columns
// text, reading, meaning and optionally id.
func parseCSVDeck(name string, data []byte) (deckFile, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return deckFile{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return deckFile{}, fmt.Errorf("read %s: missing header row", name)
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	textCol, ok := cols["text"]
	if !ok {
		return deckFile{}, fmt.Errorf("read %s: header has no text column", name)
	}

	field := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	id := deckIDFromName(name)
	d := deckFile{ID: id, Name: id}
	for _, rec := range records[1:] {
		if textCol >= len(rec) || strings.TrimSpace(rec[textCol]) == "" {
			continue
		}
		d.Words = append(d.Words, wordFile{
			ID:      field(rec, "id"),
			Text:    strings.TrimSpace(rec[textCol]),
			Reading: field(rec, "reading"),
			Meaning: field(rec, "meaning"),
		})
	}
	return d, nil
}

// deckIDFromName derives a deck ID from a file name. Colons separate
// storage key segments, so they become dashes.
func deckIDFromName(name string) string {
	base := filepath.Base(name)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), ":", "-")
}
