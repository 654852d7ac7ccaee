package sprite

import "pokedex/internal/dex"

// Label is a bilingual display name.
type Label struct {
	En string `json:"en"`
	Ja string `json:"ja"`
}

// Style describes one sprite art set.
type Style struct {
	Key  string `json:"key"`
	Path string `json:"path"` // relative to the resolver base
	// Gens lists the generations this style may be used for.
	Gens     []int `json:"gens"`
	Animated bool  `json:"animated"`
	// Shiny is false for sets that ship no shiny variant.
	Shiny bool `json:"shiny"`
	// Available, when non-empty, restricts the style to these ids.
	Available []dex.Range `json:"available,omitempty"`
	Label     Label       `json:"label"`
}

// Supports reports whether the style lists gen.
func (s Style) Supports(gen int) bool {
	for _, g := range s.Gens {
		if g == gen {
			return true
		}
	}
	return false
}

// Covers reports whether id is inside the style's availability table.
// Styles without a table cover every id.
func (s Style) Covers(id int) bool {
	if len(s.Available) == 0 {
		return true
	}
	for _, r := range s.Available {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

// Ext is the file extension of the style's assets.
func (s Style) Ext() string {
	if s.Animated {
		return ".gif"
	}
	return ".png"
}

func (s Style) clone() Style {
	s.Gens = append([]int(nil), s.Gens...)
	s.Available = append([]dex.Range(nil), s.Available...)
	return s
}

// AnimatedStyle is the only style served as frame-animated GIFs.
const AnimatedStyle = "black-white"

var allGens = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}

var catalog = []Style{
	{Key: "red-blue", Path: "versions/generation-i/red-blue", Gens: []int{1},
		Label: Label{En: "Red/Blue", Ja: "赤・緑"}},
	{Key: "yellow", Path: "versions/generation-i/yellow", Gens: []int{1},
		Label: Label{En: "Yellow", Ja: "ピカチュウ"}},
	{Key: "gold", Path: "versions/generation-ii/gold", Gens: []int{2}, Shiny: true,
		Label: Label{En: "Gold", Ja: "金"}},
	{Key: "silver", Path: "versions/generation-ii/silver", Gens: []int{2}, Shiny: true,
		Label: Label{En: "Silver", Ja: "銀"}},
	{Key: "crystal", Path: "versions/generation-ii/crystal", Gens: []int{2}, Shiny: true,
		Label: Label{En: "Crystal", Ja: "クリスタル"}},
	{Key: "ruby-sapphire", Path: "versions/generation-iii/ruby-sapphire", Gens: []int{3}, Shiny: true,
		Label: Label{En: "Ruby/Sapphire", Ja: "ルビー・サファイア"}},
	{Key: "emerald", Path: "versions/generation-iii/emerald", Gens: []int{3}, Shiny: true,
		Label: Label{En: "Emerald", Ja: "エメラルド"}},
	{Key: "firered-leafgreen", Path: "versions/generation-iii/firered-leafgreen", Gens: []int{3}, Shiny: true,
		Label: Label{En: "FireRed/LeafGreen", Ja: "ファイアレッド・リーフグリーン"}},
	{Key: "diamond-pearl", Path: "versions/generation-iv/diamond-pearl", Gens: []int{4}, Shiny: true,
		Label: Label{En: "Diamond/Pearl", Ja: "ダイヤモンド・パール"}},
	{Key: "platinum", Path: "versions/generation-iv/platinum", Gens: []int{4}, Shiny: true,
		Label: Label{En: "Platinum", Ja: "プラチナ"}},
	{Key: "heartgold-soulsilver", Path: "versions/generation-iv/heartgold-soulsilver", Gens: []int{4}, Shiny: true,
		Label: Label{En: "HeartGold/SoulSilver", Ja: "ハートゴールド・ソウルシルバー"}},
	{Key: AnimatedStyle, Path: "versions/generation-v/black-white/animated", Gens: []int{5}, Shiny: true, Animated: true,
		Label: Label{En: "Black/White", Ja: "ブラック・ホワイト"}},
	{Key: "x-y", Path: "versions/generation-vi/x-y", Gens: []int{6}, Shiny: true,
		Label: Label{En: "X/Y", Ja: "X・Y"}},
	{Key: "omegaruby-alphasapphire", Path: "versions/generation-vi/omegaruby-alphasapphire", Gens: []int{6}, Shiny: true,
		Label: Label{En: "Omega Ruby/Alpha Sapphire", Ja: "オメガルビー・アルファサファイア"}},
	// Meltan and Melmetal never got USUM sprites.
	{Key: "ultra-sun-ultra-moon", Path: "versions/generation-vii/ultra-sun-ultra-moon", Gens: []int{7}, Shiny: true,
		Available: []dex.Range{{Start: 1, End: 807}},
		Label:     Label{En: "Ultra Sun/Ultra Moon", Ja: "ウルトラサン・ウルトラムーン"}},
	{Key: "scarlet-violet", Path: "versions/generation-ix/scarlet-violet", Gens: []int{9}, Shiny: true,
		Label: Label{En: "Scarlet/Violet", Ja: "スカーレット・バイオレット"}},
	{Key: "home", Path: "other/home", Gens: allGens, Shiny: true,
		Available: []dex.Range{{Start: 1, End: dex.MaxID}},
		Label:     Label{En: "HOME", Ja: "HOME"}},
	{Key: "official-artwork", Path: "other/official-artwork", Gens: allGens, Shiny: true,
		Label: Label{En: "Official Artwork", Ja: "公式アートワーク"}},
}

var defaultStyles = map[int]string{
	1: "red-blue",
	2: "gold",
	3: "ruby-sapphire",
	4: "diamond-pearl",
	5: AnimatedStyle,
	6: "x-y",
	7: "home", // USUM lacks Meltan and Melmetal
	8: "home",
	9: "scarlet-violet",
}
