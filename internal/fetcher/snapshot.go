package fetcher

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pokedex/pkg/models"
)

// SnapshotName is the file name of a generation snapshot.
func SnapshotName(gen int) string {
	return fmt.Sprintf("generation-%d.json", gen)
}

// ReadSnapshot decodes a generation snapshot: a JSON array of entries.
func ReadSnapshot(r io.Reader) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}

// WriteSnapshot encodes entries as an indented JSON array.
func WriteSnapshot(w io.Writer, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

var csvHeader = []string{"id", "number", "generation", "name", "japanese_name", "types", "description_en", "description_ja"}

// WriteCSV writes one row per entry with its newest description.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		d := e.Description(0)
		if err := cw.Write([]string{
			strconv.Itoa(e.ID),
			e.Number(),
			strconv.Itoa(e.Generation()),
			e.Name,
			e.JapaneseName,
			strings.Join(e.Types, "/"),
			d.En,
			d.Ja,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
