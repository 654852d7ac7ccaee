// Package sprite turns (id, style, shiny, form) into a sprite URL.
//
// Resolution only builds strings from static tables. Whether the asset
// exists is the caller's concern; clients swap in PlaceholderPath when the
// image fails to load.
package sprite

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"pokedex/internal/dex"
)

// BaseURL is the PokeAPI sprite repository root.
const BaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"

// PlaceholderPath is served when neither the requested nor the default
// style can provide an asset for the id.
const PlaceholderPath = "/images/no-sprite.png"

// Sprite is a resolved asset.
type Sprite struct {
	URL      string `json:"url"`
	Style    string `json:"style"`
	Animated bool   `json:"animated"`
	Shiny    bool   `json:"shiny"`
	// FellBack is set when the requested style could not serve the id.
	FellBack bool `json:"fell_back"`
}

// Resolver holds an immutable style catalog.
type Resolver struct {
	base     string
	order    []string
	styles   map[string]Style
	defaults map[int]string
}

// NewResolver copies styles and defaults; later edits to the arguments do
// not leak into the resolver.
func NewResolver(base string, styles []Style, defaults map[int]string) *Resolver {
	r := &Resolver{
		base:     strings.TrimRight(base, "/"),
		styles:   make(map[string]Style, len(styles)),
		defaults: make(map[int]string, len(defaults)),
	}
	for _, s := range styles {
		if _, dup := r.styles[s.Key]; !dup {
			r.order = append(r.order, s.Key)
		}
		r.styles[s.Key] = s.clone()
	}
	for g, k := range defaults {
		r.defaults[g] = k
	}
	return r
}

var std = NewResolver(BaseURL, catalog, defaultStyles)

// Default returns the resolver over the built-in catalog.
func Default() *Resolver { return std }

// WithBase returns a copy of r serving assets from another root, e.g. a
// self-hosted mirror of the sprite repository.
func (r *Resolver) WithBase(base string) *Resolver {
	styles := make([]Style, 0, len(r.order))
	for _, k := range r.order {
		styles = append(styles, r.styles[k])
	}
	return NewResolver(base, styles, r.defaults)
}

// Base is the URL root every sprite path is built on.
func (r *Resolver) Base() string { return r.base }

// Lookup returns the style registered under key.
func (r *Resolver) Lookup(key string) (Style, bool) {
	s, ok := r.styles[key]
	if !ok {
		return Style{}, false
	}
	return s.clone(), true
}

// Keys lists style keys in catalog order.
func (r *Resolver) Keys() []string {
	return append([]string(nil), r.order...)
}

// Styles lists the catalog in order.
func (r *Resolver) Styles() []Style {
	out := make([]Style, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.styles[k].clone())
	}
	return out
}

// StylesFor lists the styles that support gen, in catalog order.
func (r *Resolver) StylesFor(gen int) []Style {
	var out []Style
	for _, k := range r.order {
		if s := r.styles[k]; s.Supports(gen) {
			out = append(out, s.clone())
		}
	}
	return out
}

// DefaultStyleFor returns the style used when a request cannot be served.
// Generations outside 1..9 are clamped.
func (r *Resolver) DefaultStyleFor(gen int) string {
	return r.defaults[dex.ClampGeneration(gen)]
}

// Validate checks that every generation has a default style that exists,
// supports it and covers every id in its range.
func (r *Resolver) Validate() error {
	for _, g := range dex.Generations() {
		k, ok := r.defaults[g]
		if !ok {
			return fmt.Errorf("generation %d: no default style", g)
		}
		s, ok := r.styles[k]
		if !ok {
			return fmt.Errorf("generation %d: default style %q not in catalog", g, k)
		}
		if !s.Supports(g) {
			return fmt.Errorf("generation %d: default style %q does not list it", g, k)
		}
		rng, _ := dex.RangeOf(g)
		for _, id := range rng.IDs() {
			if !s.Covers(id) {
				return fmt.Errorf("generation %d: default style %q has no asset for %d", g, k, id)
			}
		}
	}
	return nil
}

// servable returns the style for key if it can serve id.
func (r *Resolver) servable(key string, id, gen int) (Style, bool) {
	s, ok := r.styles[key]
	if !ok || !s.Supports(gen) || !s.Covers(id) {
		return Style{}, false
	}
	return s, true
}

// Resolve returns the sprite URL for id. Unknown or unsuitable styles fall
// back to the generation default once; if that fails too, PlaceholderPath.
func (r *Resolver) Resolve(id int, style string, shiny bool, form string) string {
	return r.Sprite(id, style, shiny, form).URL
}

// Sprite is Resolve with the decision details attached.
func (r *Resolver) Sprite(id int, style string, shiny bool, form string) Sprite {
	gen := dex.GenerationOf(id)

	s, ok := r.servable(style, id, gen)
	fellBack := false
	if !ok {
		fellBack = true
		s, ok = r.servable(r.DefaultStyleFor(gen), id, gen)
		if !ok {
			return Sprite{URL: PlaceholderPath, FellBack: true}
		}
	}

	shiny = shiny && s.Shiny

	var b strings.Builder
	b.WriteString(r.base)
	b.WriteByte('/')
	b.WriteString(s.Path)
	if shiny {
		b.WriteString("/shiny")
	}
	b.WriteByte('/')
	b.WriteString(stem(id, form))
	b.WriteString(s.Ext())

	return Sprite{
		URL:      b.String(),
		Style:    s.Key,
		Animated: s.Animated,
		Shiny:    shiny,
		FellBack: fellBack,
	}
}

// IconURL is the small menu icon used in entry lists.
func (r *Resolver) IconURL(id int) string {
	return r.base + "/versions/generation-vii/icons/" + strconv.Itoa(id) + ".png"
}

// DefaultURL is the plain front sprite, the icon's load-failure fallback.
func (r *Resolver) DefaultURL(id int, shiny bool) string {
	if shiny {
		return r.base + "/shiny/" + strconv.Itoa(id) + ".png"
	}
	return r.base + "/" + strconv.Itoa(id) + ".png"
}

func stem(id int, form string) string {
	form = strings.TrimSpace(form)
	if form == "" {
		return strconv.Itoa(id)
	}
	return strconv.Itoa(id) + "-" + url.PathEscape(form)
}

// Resolve resolves against the built-in catalog.
func Resolve(id int, style string, shiny bool, form string) string {
	return std.Resolve(id, style, shiny, form)
}

// DefaultStyleFor returns the built-in default style of gen.
func DefaultStyleFor(gen int) string {
	return std.DefaultStyleFor(gen)
}

// Lookup finds a built-in style.
func Lookup(key string) (Style, bool) {
	return std.Lookup(key)
}

// Keys lists the built-in style keys sorted alphabetically.
func Keys() []string {
	keys := std.Keys()
	sort.Strings(keys)
	return keys
}
