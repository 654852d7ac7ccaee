package models

import "time"

// Preference keys remembered for the viewer.
const (
	PrefGeneration  = "generation"
	PrefLanguage    = "language"
	PrefShiny       = "shiny"
	PrefSpriteStyle = "sprite-style"
	PrefSkinColor   = "skin-color"
	PrefScreenColor = "screen-color"
)

// PrefDefaults is the value of every key that was never set.
var PrefDefaults = map[string]string{
	PrefGeneration:  "1",
	PrefLanguage:    "en",
	PrefShiny:       "false",
	PrefSpriteStyle: "black-white",
	PrefSkinColor:   "#8b0000",
	PrefScreenColor: "#9bbc0f",
}

// PrefKeys lists the keys in display order.
var PrefKeys = []string{
	PrefGeneration,
	PrefLanguage,
	PrefShiny,
	PrefSpriteStyle,
	PrefSkinColor,
	PrefScreenColor,
}

// Pref is one stored preference row.
type Pref struct {
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
