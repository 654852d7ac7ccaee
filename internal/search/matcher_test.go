package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"ascii lowercased", "Pikachu", "pikachu"},
		{"full-width latin", "ＰＩＫＡ", "pika"},
		{"full-width digits", "０２５", "025"},
		{"katakana to hiragana", "ピカチュウ", "ぴかちゅう"},
		{"hiragana untouched", "ぴかちゅう", "ぴかちゅう"},
		{"mixed script", "ピかチュう", "ぴかちゅう"},
		{"long vowel mark kept", "ルージュラ", "るーじゅら"},
		{"half-width katakana", "ﾋﾟｶﾁｭｳ", "ぴかちゅう"},
		{"small ke", "ヶ", "ゖ"},
		{"iteration mark", "ヽヾ", "ゝゞ"},
		{"kanji untouched", "伝説", "伝説"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeKatakanaBlock(t *testing.T) {
	for r := katakanaFirst; r <= katakanaLast; r++ {
		got := Normalize(string(r))
		assert.Equal(t, string(r-kanaOffset), got, "katakana %U", r)
	}
	assert.Equal(t, "ー", Normalize("ー"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "Pikachu", "ＰＩＫＡ", "ピカチュウ", "ﾋﾟｶﾁｭｳ", "ルージュラ",
		"Mr. Mime", "バリヤード", "Ｆｌａｂéｂé", "フラベベ", "№025", "ポケモンＧＯ",
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestIsPartialMatch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"empty query", "", "Pikachu", false},
		{"empty candidate", "pika", "", false},
		{"two characters", "pi", "Pikachu", false},
		{"three characters", "pik", "Pikachu", true},
		{"four characters", "pika", "Pikachu", true},
		{"case insensitive", "PIKA", "pikachu", true},
		{"no match", "char", "Pikachu", false},
		{"katakana query hiragana name", "ピカ", "ぴかちゅう", false},
		{"katakana query hiragana name long enough", "ピカチ", "ぴかちゅう", true},
		{"hiragana query katakana name", "ぴかち", "ピカチュウ", true},
		{"full-width query", "ｐｉｋａ", "Pikachu", true},
		{"numeric literal", "025", "0025", true},
		{"numeric is not numeric equality", "025", "25", false},
		{"numeric mismatch", "250", "0025", false},
		{"numeric below threshold", "25", "0025", false},
		{"full-width digits use normalization", "０２５", "0025", true},
		{"middle of name", "chu", "Pikachu", true},
		{"long vowel", "ージュ", "ルージュラ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPartialMatch(tt.query, tt.candidate))
		})
	}
}

func TestIsPartialMatchCrossScript(t *testing.T) {
	// "ピカ" is two UTF-16 units, under MinQueryLength (3), so it never
	// matches; three-kana fragments match across scripts
	assert.False(t, IsPartialMatch("ピカ", "ぴかちゅう"))
	assert.False(t, IsPartialMatch("ぴか", "ピカチュウ"))
	assert.True(t, IsPartialMatch("ピカチ", "ぴかちゅう"))
	assert.True(t, IsPartialMatch("ぴかち", "ピカチュウ"))
}

func TestIsPartialMatchSurrogatePairs(t *testing.T) {
	// a single astral rune counts as two UTF-16 units
	assert.False(t, IsPartialMatch("😀", "😀😀"))
	assert.True(t, IsPartialMatch("😀a", "x😀ay"))
}

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny("ぴかち", "pikachu", "ピカチュウ", "0025"))
	assert.True(t, MatchAny("025", "pikachu", "ピカチュウ", "0025"))
	assert.False(t, MatchAny("raichu", "pikachu", "ピカチュウ", "0025"))
	assert.False(t, MatchAny("pika"))
}

func TestIsPartialMatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !IsPartialMatch("ピカチ", "ぴかちゅう") {
					t.Error("expected match")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestIsSearchable(t *testing.T) {
	assert.False(t, IsSearchable(""))
	assert.False(t, IsSearchable("ピカ"))
	assert.True(t, IsSearchable("ピカチ"))
	assert.True(t, IsSearchable("025"))
	// one astral rune counts as two units
	assert.True(t, IsSearchable("𠮷a"))
}
