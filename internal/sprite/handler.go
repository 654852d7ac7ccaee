package sprite

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pokedex/internal/dex"
)

type Handler struct {
	Resolver *Resolver
}

func NewHandler(r *Resolver) *Handler {
	if r == nil {
		r = Default()
	}
	return &Handler{Resolver: r}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/styles", h.styles)   // GET /styles?gen=N
	rg.GET("/sprites/:id", h.get) // GET /sprites/:id?style=&shiny=&form=&redirect=1
}

func (h *Handler) styles(c *gin.Context) {
	if g := c.Query("gen"); g != "" {
		gen, err := strconv.Atoi(g)
		if err != nil || !dex.ValidGeneration(gen) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gen"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"default": h.Resolver.DefaultStyleFor(gen),
			"items":   h.Resolver.StylesFor(gen),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.Resolver.Styles()})
}

// SpriteView is the JSON body of GET /sprites/:id.
type SpriteView struct {
	Sprite
	// FallbackURL is the plain front sprite, for clients whose image load
	// of URL fails.
	FallbackURL string `json:"fallback_url"`
	IconURL     string `json:"icon_url"`
}

// View resolves id and attaches the icon and fallback URLs.
func (h *Handler) View(id int, style string, shiny bool, form string) SpriteView {
	s := h.Resolver.Sprite(id, style, shiny, form)
	return SpriteView{
		Sprite:      s,
		FallbackURL: h.Resolver.DefaultURL(id, shiny),
		IconURL:     h.Resolver.IconURL(id),
	}
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	shiny, err := ParseBool(c.Query("shiny"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shiny"})
		return
	}

	style := c.Query("style")
	if style == "" {
		style = h.Resolver.DefaultStyleFor(dex.GenerationOf(id))
	}

	v := h.View(id, style, shiny, c.Query("form"))
	if redirect, _ := ParseBool(c.Query("redirect")); redirect {
		c.Redirect(http.StatusFound, v.URL)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ParseBool accepts the usual strconv spellings plus "yes"/"no"; empty is
// false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return false, nil
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
