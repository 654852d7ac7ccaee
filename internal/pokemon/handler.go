package pokemon

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex/internal/dex"
	"pokedex/internal/sprite"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

const (
	defaultLimit = 200
	maxLimit     = 200
)

// Loader fetches a generation that is not cached yet.
type Loader interface {
	Refresh(ctx context.Context, gen int) (int, error)
}

type Handler struct {
	Repo    *Repo
	Sprites *sprite.Handler
	// Loader, when set, fills an empty generation on first request.
	Loader Loader
	Logger *zap.Logger
}

func NewHandler(repo *Repo, sprites *sprite.Handler, loader Loader, logger *zap.Logger) *Handler {
	if sprites == nil {
		sprites = sprite.NewHandler(nil)
	}
	return &Handler{Repo: repo, Sprites: sprites, Loader: loader, Logger: utils.OrNop(logger)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pokemon", h.list)                        // GET /pokemon?gen=&q=&limit=&offset=
	rg.GET("/pokemon/:id", h.getByID)                 // GET /pokemon/:id?style=&shiny=&form=
	rg.GET("/pokemon/:id/description", h.description) // GET /pokemon/:id/description?version=&lang=
	rg.GET("/generations", h.generations)
}

// EntryView is an entry as served to clients.
type EntryView struct {
	models.Entry
	Number     string             `json:"number"`
	Generation int                `json:"generation"`
	IconURL    string             `json:"icon_url"`
	Sprite     *sprite.SpriteView `json:"sprite,omitempty"`
}

func (h *Handler) view(e models.Entry) EntryView {
	return EntryView{
		Entry:      e,
		Number:     e.Number(),
		Generation: e.Generation(),
		IconURL:    h.Sprites.Resolver.IconURL(e.ID),
	}
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	q := strings.TrimSpace(c.Query("q"))
	limit := parseInt(c.Query("limit"), defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := parseInt(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	gen := 0
	if g := c.Query("gen"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || !dex.ValidGeneration(n) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gen"})
			return
		}
		gen = n
	} else if q == "" {
		gen = 1
	}

	if gen != 0 {
		if err := h.ensureCached(ctx, gen); err != nil {
			h.Logger.Warn("load generation", zap.Int("generation", gen), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation unavailable"})
			return
		}
	}

	var (
		items []models.Entry
		total int
		err   error
	)
	if q != "" {
		items, total, err = h.Repo.Search(ctx, q, gen, limit, offset)
	} else {
		total, err = h.Repo.CountByGeneration(ctx, gen)
		if err == nil {
			items, err = h.Repo.ListByGeneration(ctx, gen, limit, offset)
		}
	}
	if err != nil {
		h.Logger.Error("list pokemon", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	views := make([]EntryView, 0, len(items))
	for _, e := range items {
		views = append(views, h.view(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  views,
	})
}

func (h *Handler) ensureCached(ctx context.Context, gen int) error {
	if h.Loader == nil {
		return nil
	}
	n, err := h.Repo.CountByGeneration(ctx, gen)
	if err != nil || n > 0 {
		return err
	}
	_, err = h.Loader.Refresh(ctx, gen)
	return err
}

func (h *Handler) entry(c *gin.Context) *models.Entry {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil
	}
	e, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("get pokemon", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return nil
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil
	}
	return e
}

func (h *Handler) getByID(c *gin.Context) {
	e := h.entry(c)
	if e == nil {
		return
	}

	shiny, err := sprite.ParseBool(c.Query("shiny"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shiny"})
		return
	}
	style := c.Query("style")
	if style == "" {
		style = h.Sprites.Resolver.DefaultStyleFor(e.Generation())
	}

	v := h.view(*e)
	s := h.Sprites.View(e.ID, style, shiny, c.Query("form"))
	v.Sprite = &s
	c.JSON(http.StatusOK, v)
}

func (h *Handler) description(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")
	if lang != "en" && lang != "ja" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lang must be en or ja"})
		return
	}
	version := 0
	if v := c.Query("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !dex.ValidGeneration(n) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
			return
		}
		version = n
	}

	e := h.entry(c)
	if e == nil {
		return
	}
	d := e.Description(version)
	c.JSON(http.StatusOK, gin.H{
		"id":      e.ID,
		"version": version,
		"lang":    lang,
		"text":    d.In(lang),
		"en":      d.En,
		"ja":      d.Ja,
	})
}

// GenerationView is one row of GET /generations.
type GenerationView struct {
	Generation   int      `json:"generation"`
	Start        int      `json:"start"`
	End          int      `json:"end"`
	Cached       int      `json:"cached"`
	DefaultStyle string   `json:"default_style"`
	Styles       []string `json:"styles"`
	Versions     []string `json:"versions"`
}

func (h *Handler) generations(c *gin.Context) {
	counts, err := h.Repo.Counts(c.Request.Context())
	if err != nil {
		h.Logger.Error("count generations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	r := h.Sprites.Resolver
	out := make([]GenerationView, 0, dex.Count)
	for _, gen := range dex.Generations() {
		rng, _ := dex.RangeOf(gen)
		var styles []string
		for _, s := range r.StylesFor(gen) {
			styles = append(styles, s.Key)
		}
		out = append(out, GenerationView{
			Generation:   gen,
			Start:        rng.Start,
			End:          rng.End,
			Cached:       counts[gen],
			DefaultStyle: r.DefaultStyleFor(gen),
			Styles:       styles,
			Versions:     dex.VersionsOf(gen),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
