package prefs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex/internal/auth"
	"pokedex/internal/events"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

// Publisher receives preference change events.
type Publisher interface {
	Publish(e events.Event)
}

type Handler struct {
	Repo   *Repo
	Events Publisher
	Logger *zap.Logger
}

func NewHandler(repo *Repo, pub Publisher, logger *zap.Logger) *Handler {
	return &Handler{Repo: repo, Events: pub, Logger: utils.OrNop(logger)}
}

// RegisterRoutes expects rg to be behind auth.AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/prefs", h.list)      // GET /users/prefs
	rg.PUT("/prefs/:key", h.put)  // PUT /users/prefs/:key {"value": "..."}
	rg.PATCH("/prefs", h.patch)   // PATCH /users/prefs {"language": "ja", ...}
	rg.GET("/prefs/keys", h.keys) // GET /users/prefs/keys
}

func (h *Handler) keys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": models.PrefKeys, "defaults": models.PrefDefaults})
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	all, err := h.Repo.All(c.Request.Context(), claims.UserID)
	if err != nil {
		h.Logger.Error("load prefs", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prefs": all})
}

type putReq struct {
	Value string `json:"value"`
}

func (h *Handler) put(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req putReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	key := c.Param("key")
	v, err := SetValid(c.Request.Context(), h.Repo.ForUser(claims.UserID), key, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(claims.UserID, key, v)

	c.JSON(http.StatusOK, gin.H{"key": key, "value": v})
}

func (h *Handler) patch(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// validate everything before writing anything
	clean := make(map[string]string, len(req))
	for k, v := range req {
		cv, err := Validate(k, v)
		if err != nil {
			h.fail(c, err)
			return
		}
		clean[k] = cv
	}

	ctx := c.Request.Context()
	for _, k := range models.PrefKeys {
		v, ok := clean[k]
		if !ok {
			continue
		}
		if err := h.Repo.Set(ctx, claims.UserID, k, v); err != nil {
			h.fail(c, err)
			return
		}
		h.publish(claims.UserID, k, v)
	}

	all, err := h.Repo.All(ctx, claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prefs": all})
}

func (h *Handler) publish(userID, key, value string) {
	if h.Events != nil {
		h.Events.Publish(events.PrefsUpdated(userID, key, value))
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownKey):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("save prefs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
	}
}
