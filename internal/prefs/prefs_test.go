package prefs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"pokedex/internal/auth"
	"pokedex/internal/events"
	"pokedex/pkg/database"
	"pokedex/pkg/models"
)

func TestValidate(t *testing.T) {
	ok := []struct{ key, in, want string }{
		{models.PrefGeneration, " 9 ", "9"},
		{models.PrefLanguage, "JA", "ja"},
		{models.PrefShiny, "1", "true"},
		{models.PrefShiny, "FALSE", "false"},
		{models.PrefSpriteStyle, "home", "home"},
		{models.PrefSkinColor, "#8B0000", "#8b0000"},
		{models.PrefScreenColor, "#9bbc0f", "#9bbc0f"},
	}
	for _, tc := range ok {
		got, err := Validate(tc.key, tc.in)
		require.NoError(t, err, tc.key)
		assert.Equal(t, tc.want, got, tc.key)
	}

	bad := []struct{ key, in string }{
		{models.PrefGeneration, "0"},
		{models.PrefGeneration, "10"},
		{models.PrefLanguage, "fr"},
		{models.PrefShiny, "sometimes"},
		{models.PrefSpriteStyle, "gameboy"},
		{models.PrefSkinColor, "red"},
		{models.PrefScreenColor, "#9bbc0"},
	}
	for _, tc := range bad {
		_, err := Validate(tc.key, tc.in)
		assert.ErrorIs(t, err, ErrInvalidValue, tc.key+"="+tc.in)
	}

	_, err := Validate("theme", "dark")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestDefaultsAreValid(t *testing.T) {
	for _, k := range models.PrefKeys {
		v, err := Validate(k, models.PrefDefaults[k])
		require.NoError(t, err, k)
		assert.Equal(t, models.PrefDefaults[k], v)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	s := NewFileStore(path)

	v, err := s.Get(ctx, models.PrefLanguage, "en")
	require.NoError(t, err)
	assert.Equal(t, "en", v)

	require.NoError(t, s.Set(ctx, models.PrefLanguage, "ja"))
	require.NoError(t, s.Set(ctx, "odd.key", "x"))

	v, err = s.Get(ctx, models.PrefLanguage, "en")
	require.NoError(t, err)
	assert.Equal(t, "ja", v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(data))
	assert.Equal(t, "x", gjson.GetBytes(data, `odd\.key`).String())

	all, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "ja", all[models.PrefLanguage])
	assert.Equal(t, "black-white", all[models.PrefSpriteStyle])

	// a second store over the same file sees the writes
	v, err = NewFileStore(path).Get(ctx, models.PrefLanguage, "")
	require.NoError(t, err)
	assert.Equal(t, "ja", v)
}

func TestFileStoreConcurrentSets(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "prefs.json"))

	var wg sync.WaitGroup
	for _, k := range models.PrefKeys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, k, models.PrefDefaults[k]))
		}(k)
	}
	wg.Wait()

	all, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, models.PrefDefaults, all)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Get(context.Background(), models.PrefShiny, "false")
	assert.Error(t, err)
}

type fixture struct {
	db     *Repo
	users  *auth.Repo
	tokens auth.TokenService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(t.TempDir(), "prefs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := auth.NewRepo(db)
	ctx := context.Background()
	require.NoError(t, users.CreateUser(ctx, auth.User{ID: "u1", Username: "red", PasswordHash: "x"}))
	require.NoError(t, users.CreateUser(ctx, auth.User{ID: "u2", Username: "blue", PasswordHash: "x"}))

	return fixture{
		db:     NewRepo(db),
		users:  users,
		tokens: auth.TokenService{Secret: []byte("test"), Issuer: "pokedex", Duration: time.Hour},
	}
}

func TestRepoPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	red := f.db.ForUser("u1")
	_, err := SetValid(ctx, red, models.PrefSpriteStyle, "home")
	require.NoError(t, err)
	require.NoError(t, red.Set(ctx, models.PrefSpriteStyle, "x-y"))

	v, err := red.Get(ctx, models.PrefSpriteStyle, "black-white")
	require.NoError(t, err)
	assert.Equal(t, "x-y", v)

	blue, err := f.db.All(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.PrefDefaults, blue)

	rows, err := f.db.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x-y", rows[0].Value)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	rec := &recorder{}

	r := gin.New()
	NewHandler(f.db, rec, nil).RegisterRoutes(r.Group("/users", auth.AuthMiddleware(f.tokens, f.users)))

	token, _, err := f.tokens.Sign(&auth.User{ID: "u1", Username: "red"})
	require.NoError(t, err)

	call := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPut, "/users/prefs/language", gin.H{"value": "JA"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"key": "language", "value": "ja"}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, call(http.MethodPut, "/users/prefs/generation", gin.H{"value": "12"}).Code)
	assert.Equal(t, http.StatusNotFound, call(http.MethodPut, "/users/prefs/theme", gin.H{"value": "dark"}).Code)

	// a bad value anywhere rejects the whole patch
	w = call(http.MethodPatch, "/users/prefs", gin.H{"shiny": "true", "skin-color": "pink"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(http.MethodPatch, "/users/prefs", gin.H{"shiny": "true", "generation": "5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Prefs map[string]string `json:"prefs"`
	}
	w = call(http.MethodGet, "/users/prefs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ja", resp.Prefs["language"])
	assert.Equal(t, "true", resp.Prefs["shiny"])
	assert.Equal(t, "5", resp.Prefs["generation"])
	assert.Equal(t, "#9bbc0f", resp.Prefs["screen-color"])

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.events, 3)
	assert.Equal(t, events.TypePrefsUpdate, rec.events[0].Type)
	assert.Equal(t, "u1", rec.events[0].UserID)
	// patch applies keys in display order
	assert.Equal(t, "generation", rec.events[1].Key)
	assert.Equal(t, "shiny", rec.events[2].Key)
}

func TestHandlerRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)

	r := gin.New()
	NewHandler(f.db, nil, nil).RegisterRoutes(r.Group("/users", auth.AuthMiddleware(f.tokens, f.users)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/prefs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
