package sprite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).RegisterRoutes(r.Group(""))
	return r
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSpriteEndpoint(t *testing.T) {
	r := newRouter()

	w := serve(r, "/sprites/910?style=scarlet-violet&shiny=1")
	require.Equal(t, http.StatusOK, w.Code)

	var v SpriteView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, BaseURL+"/versions/generation-ix/scarlet-violet/shiny/910.png", v.URL)
	assert.True(t, v.Shiny)
	assert.Equal(t, BaseURL+"/shiny/910.png", v.FallbackURL)
	assert.Equal(t, BaseURL+"/versions/generation-vii/icons/910.png", v.IconURL)

	// no style means the generation default
	w = serve(r, "/sprites/494")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "black-white", v.Style)
	assert.True(t, v.Animated)
	assert.False(t, v.FellBack)
}

func TestSpriteRedirect(t *testing.T) {
	w := serve(newRouter(), "/sprites/1?style=home&redirect=1")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, BaseURL+"/other/home/1.png", w.Header().Get("Location"))
}

func TestSpriteEndpointValidation(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusBadRequest, serve(r, "/sprites/0").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/sprites/pika").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, "/sprites/1?shiny=perhaps").Code)
}

func TestStylesEndpoint(t *testing.T) {
	r := newRouter()

	var all struct {
		Items []Style `json:"items"`
	}
	w := serve(r, "/styles")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Items, len(Default().Keys()))
	assert.Equal(t, "red-blue", all.Items[0].Key)
	assert.Equal(t, "赤・緑", all.Items[0].Label.Ja)

	var gen struct {
		Default string  `json:"default"`
		Items   []Style `json:"items"`
	}
	w = serve(r, "/styles?gen=5")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	assert.Equal(t, "black-white", gen.Default)
	for _, s := range gen.Items {
		assert.True(t, s.Supports(5), s.Key)
	}

	assert.Equal(t, http.StatusBadRequest, serve(r, "/styles?gen=0").Code)
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"": false, "1": true, "true": true, "YES": true, "off": false, "0": false} {
		got, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
