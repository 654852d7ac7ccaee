package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pokedex/pkg/database"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(t.TempDir(), "auth.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := NewHandler(NewRepo(db), TokenService{Secret: []byte("test"), Issuer: "pokedex", Duration: time.Hour}, nil)
	h.Cost = bcrypt.MinCost

	r := gin.New()
	h.RegisterRoutes(r.Group("/auth"))
	return r, h
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginLogout(t *testing.T) {
	r, _ := newTestRouter(t)
	creds := credentials{Username: "satoshi", Password: "pallet-town"}

	w := do(r, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := tokenOf(t, w)

	w = do(r, http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	second := tokenOf(t, w)

	w = do(r, http.MethodGet, "/auth/me", second, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "satoshi")

	w = do(r, http.MethodPost, "/auth/logout", first, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// every token issued before the logout is revoked
	for _, tok := range []string{first, second} {
		w = do(r, http.MethodGet, "/auth/me", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(r, http.MethodPost, "/auth/register", "", credentials{Username: "kasumi", Password: "cerulean-city"}).Code)

	w := do(r, http.MethodPost, "/auth/login", "", credentials{Username: "kasumi", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", credentials{Username: "nobody", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/auth/register", "", credentials{Username: "ab", Password: "long-enough"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/auth/register", "", credentials{Username: "takeshi", Password: "short"}).Code)
}

func TestChangePasswordRevokesTokens(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/auth/register", "", credentials{Username: "takeshi", Password: "pewter-city"})
	tok := tokenOf(t, w)

	w = do(r, http.MethodPost, "/auth/change-password", tok, changePasswordReq{OldPassword: "pewter-city", NewPassword: "boulder-badge"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/me", tok, nil).Code)
	assert.Equal(t, http.StatusOK,
		do(r, http.MethodPost, "/auth/login", "", credentials{Username: "takeshi", Password: "boulder-badge"}).Code)
}

func TestMiddlewareRejectsForeignTokens(t *testing.T) {
	r, _ := newTestRouter(t)

	other := TokenService{Secret: []byte("other"), Issuer: "pokedex", Duration: time.Hour}
	forged, _, err := other.Sign(&User{ID: "x", Username: "mallory"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/me", forged, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/auth/me", "", nil).Code)
}

func TestTokenRoundTrip(t *testing.T) {
	ts := TokenService{Secret: []byte("s"), Issuer: "pokedex", Duration: time.Minute}
	tok, exp, err := ts.Sign(&User{ID: "u1", Username: "red", TokenVersion: 3})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := ts.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)

	expired := TokenService{Secret: []byte("s"), Issuer: "pokedex", Duration: -time.Minute}
	old, _, err := expired.Sign(&User{ID: "u1"})
	require.NoError(t, err)
	_, err = ts.Parse(old)
	assert.Error(t, err)
}
