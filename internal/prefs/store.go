// Package prefs stores the viewer's preferences: generation, language,
// shiny toggle, sprite style and the two UI colors.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pokedex/internal/dex"
	"pokedex/internal/sprite"
	"pokedex/pkg/models"
)

var (
	ErrUnknownKey   = errors.New("unknown preference key")
	ErrInvalidValue = errors.New("invalid preference value")
)

// Store is a string key-value store. Get returns def for keys never set.
type Store interface {
	Get(ctx context.Context, key, def string) (string, error)
	Set(ctx context.Context, key, value string) error
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks value for key and returns its canonical form.
func Validate(key, value string) (string, error) {
	value = strings.TrimSpace(value)

	switch key {
	case models.PrefGeneration:
		n, err := strconv.Atoi(value)
		if err != nil || !dex.ValidGeneration(n) {
			return "", fmt.Errorf("%w: generation must be 1-%d", ErrInvalidValue, dex.Count)
		}
		return strconv.Itoa(n), nil

	case models.PrefLanguage:
		v := strings.ToLower(value)
		if v != "en" && v != "ja" {
			return "", fmt.Errorf("%w: language must be en or ja", ErrInvalidValue)
		}
		return v, nil

	case models.PrefShiny:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: shiny must be true or false", ErrInvalidValue)
		}
		return strconv.FormatBool(b), nil

	case models.PrefSpriteStyle:
		if _, ok := sprite.Lookup(value); !ok {
			return "", fmt.Errorf("%w: unknown sprite style %q", ErrInvalidValue, value)
		}
		return value, nil

	case models.PrefSkinColor, models.PrefScreenColor:
		if !colorRe.MatchString(value) {
			return "", fmt.Errorf("%w: %s must look like #rrggbb", ErrInvalidValue, key)
		}
		return strings.ToLower(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Load reads every known key from s, falling back to the defaults.
func Load(ctx context.Context, s Store) (map[string]string, error) {
	out := make(map[string]string, len(models.PrefKeys))
	for _, k := range models.PrefKeys {
		v, err := s.Get(ctx, k, models.PrefDefaults[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// SetValid validates and stores one preference, returning the stored value.
func SetValid(ctx context.Context, s Store, key, value string) (string, error) {
	v, err := Validate(key, value)
	if err != nil {
		return "", err
	}
	if err := s.Set(ctx, key, v); err != nil {
		return "", err
	}
	return v, nil
}
