package models

import (
	"fmt"
	"sort"
	"time"

	"pokedex/internal/dex"
)

// Description is a flavor text pair.
type Description struct {
	En string `json:"en"`
	Ja string `json:"ja"`
}

// Complete reports whether both languages are present.
func (d Description) Complete() bool {
	return d.En != "" && d.Ja != ""
}

// In returns the text for lang ("ja" or anything else for English).
func (d Description) In(lang string) string {
	if lang == "ja" {
		return d.Ja
	}
	return d.En
}

// Entry is one cached creature record. Entries are replaced wholesale when
// a generation is re-fetched, never edited in place.
type Entry struct {
	ID           int                 `json:"id"`
	Name         string              `json:"name"`
	JapaneseName string              `json:"japaneseName"`
	Types        []string            `json:"types"`
	Descriptions map[int]Description `json:"descriptions"` // keyed by generation
	FetchedAt    time.Time           `json:"fetchedAt,omitempty"`
}

// Generation is derived from the id.
func (e Entry) Generation() int {
	return dex.GenerationOf(e.ID)
}

// Number is the zero-padded dex number shown in lists, e.g. "0025".
func (e Entry) Number() string {
	return fmt.Sprintf("%04d", e.ID)
}

// DisplayName picks the name for lang.
func (e Entry) DisplayName(lang string) string {
	if lang == "ja" && e.JapaneseName != "" {
		return e.JapaneseName
	}
	return e.Name
}

// Description returns the flavor text of one generation. version 0 asks for
// the newest generation that has both languages, else the newest at all.
// A missing version yields an empty Description.
func (e Entry) Description(version int) Description {
	if version != 0 {
		return e.Descriptions[version]
	}

	versions := make([]int, 0, len(e.Descriptions))
	for v := range e.Descriptions {
		versions = append(versions, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	for _, v := range versions {
		if d := e.Descriptions[v]; d.Complete() {
			return d
		}
	}
	for _, v := range versions {
		if d := e.Descriptions[v]; d.En != "" || d.Ja != "" {
			return d
		}
	}
	return Description{}
}
