package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex/internal/auth"
	"pokedex/internal/events"
	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/internal/prefs"
	"pokedex/internal/sprite"
	"pokedex/pkg/database"
	"pokedex/pkg/models"
)

type testEnv struct {
	dir string
	api string
}

func newTestEnv(t *testing.T, withServer bool) *testEnv {
	t.Helper()
	env := &testEnv{dir: t.TempDir()}
	if !withServer {
		return env
	}

	gin.SetMode(gin.TestMode)
	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(env.dir, "cli.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := pokemon.NewRepo(db)
	require.NoError(t, repo.Save(context.Background(), []models.Entry{
		{ID: 1, Name: "bulbasaur", JapaneseName: "フシギダネ", Types: []string{"grass", "poison"},
			Descriptions: map[int]models.Description{1: {En: "A strange seed", Ja: "たね"}}},
		{ID: 25, Name: "pikachu", JapaneseName: "ピカチュウ", Types: []string{"electric"}},
		{ID: 26, Name: "raichu", JapaneseName: "ライチュウ", Types: []string{"electric"}},
	}))

	tokens := auth.TokenService{Secret: []byte("cli-test"), Issuer: "pokedex", Duration: time.Hour}
	authHandler := auth.NewHandler(auth.NewRepo(db), tokens, nil)

	r := gin.New()
	sprites := sprite.NewHandler(nil)
	sprites.RegisterRoutes(r.Group(""))
	pokemon.NewHandler(repo, sprites, nil, nil).RegisterRoutes(r.Group(""))
	authHandler.RegisterRoutes(r.Group("/auth"))
	prefs.NewHandler(prefs.NewRepo(db), events.NewHub(nil), nil).
		RegisterRoutes(r.Group("/users", authHandler.Middleware()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	env.api = srv.URL
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{
		"--token", filepath.Join(e.dir, "token.json"),
		"--prefs", filepath.Join(e.dir, "prefs.json"),
	}
	if e.api != "" {
		base = append(base, "--api", e.api)
	}
	// flags after the subcommand path are accepted by cobra
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSpriteCommandResolvesLocally(t *testing.T) {
	env := newTestEnv(t, false)

	out, err := env.run(t, "sprite", "1", "--style", "black-white")
	require.NoError(t, err)
	assert.Contains(t, out, sprite.BaseURL+"/versions/generation-i/red-blue/1.png")
	assert.Contains(t, out, `used "red-blue"`)

	out, err = env.run(t, "sprite", "494", "--shiny")
	require.NoError(t, err)
	assert.Contains(t, out, "/black-white/animated/shiny/494.gif")
}

func TestStylesCommand(t *testing.T) {
	env := newTestEnv(t, false)

	out, err := env.run(t, "styles", "--gen", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "red-blue*")
	assert.NotContains(t, out, "scarlet-violet")

	_, err = env.run(t, "styles", "--gen", "12")
	assert.Error(t, err)
}

func TestLocalPrefs(t *testing.T) {
	env := newTestEnv(t, false)

	out, err := env.run(t, "prefs", "get", "sprite-style")
	require.NoError(t, err)
	assert.Equal(t, "black-white\n", out)

	out, err = env.run(t, "prefs", "set", "skin-color", "#ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "skin-color = #abcdef\n", out)

	_, err = env.run(t, "prefs", "set", "generation", "10")
	assert.ErrorIs(t, err, prefs.ErrInvalidValue)
	_, err = env.run(t, "prefs", "get", "nope")
	assert.ErrorIs(t, err, prefs.ErrUnknownKey)

	out, err = env.run(t, "prefs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#abcdef")
	assert.Contains(t, out, "generation")
}

func TestPokemonCommands(t *testing.T) {
	env := newTestEnv(t, true)

	out, err := env.run(t, "pokemon", "search", "ぴかち", "--lang", "ja")
	require.NoError(t, err)
	assert.Contains(t, out, "ピカチュウ")
	assert.NotContains(t, out, "ライチュウ")

	_, err = env.run(t, "pokemon", "search", "ピカ")
	assert.Error(t, err)

	out, err = env.run(t, "pokemon", "list", "--gen", "1", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "0001")
	assert.Contains(t, out, "2 of 3")

	out, err = env.run(t, "pokemon", "show", "1", "--style", "yellow")
	require.NoError(t, err)
	assert.Contains(t, out, "No.0001 bulbasaur (フシギダネ)")
	assert.Contains(t, out, "/yellow/1.png")
	assert.Contains(t, out, "A strange seed")

	_, err = env.run(t, "pokemon", "show", "999")
	var ae *apiError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 404, ae.Status)
}

func TestAuthAndRemotePrefs(t *testing.T) {
	env := newTestEnv(t, true)

	_, err := env.run(t, "prefs", "list", "--remote")
	assert.Error(t, err)

	out, err := env.run(t, "auth", "register", "-u", "satoshi", "-p", "pallet-town")
	require.NoError(t, err)
	assert.Contains(t, out, "satoshi")

	out, err = env.run(t, "prefs", "set", "language", "JA", "--remote")
	require.NoError(t, err)
	assert.Equal(t, "language = ja\n", out)

	out, err = env.run(t, "prefs", "get", "language", "--remote")
	require.NoError(t, err)
	assert.Equal(t, "ja\n", out)

	// the local file is untouched
	out, err = env.run(t, "prefs", "get", "language")
	require.NoError(t, err)
	assert.Equal(t, "en\n", out)

	out, err = env.run(t, "auth", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "satoshi\n", out)

	_, err = env.run(t, "auth", "logout")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dir, "token.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t, true)

	path := filepath.Join(env.dir, "out", "dex.csv")
	_, err := env.run(t, "export", "csv", "--gens", "1", "-o", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "1,0001,1,bulbasaur,フシギダネ,grass/poison,"))

	jsonPath := filepath.Join(env.dir, "gen1.json")
	_, err = env.run(t, "export", "json", "--gens", "1", "-o", jsonPath)
	require.NoError(t, err)
	f, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer f.Close()
	entries, err := fetcher.ReadSnapshot(f)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://dex.example.com:8443/api", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "wss://dex.example.com:8443/ws", u)
}
