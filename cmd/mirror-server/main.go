package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex/internal/dex"
	"pokedex/internal/fetcher"
	"pokedex/pkg/utils"
)

// Serves generation-N.json snapshots written by export-data, in the layout
// fetcher.MirrorSource reads.
func main() {
	var (
		dir   = flag.String("dir", "data", "snapshot directory")
		addr  = flag.String("addr", ":9000", "listen address")
		debug = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	logger, err := utils.NewLogger(*debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.GinLogger(logger))
	registerRoutes(router, *dir)

	logger.Info("mirror-server listening", zap.String("addr", *addr), zap.String("dir", *dir))
	if err := router.Run(*addr); err != nil {
		logger.Fatal("mirror-server stopped", zap.Error(err))
	}
}

func registerRoutes(router *gin.Engine, dir string) {
	router.GET("/data/:file", func(c *gin.Context) {
		gen, ok := generationOf(c.Param("file"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown snapshot"})
			return
		}

		b, err := os.ReadFile(filepath.Join(dir, fetcher.SnapshotName(gen)))
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "generation not mirrored"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read snapshot"})
			return
		}
		// reject broken snapshots
		if !json.Valid(b) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot is not valid JSON"})
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	})
}

func generationOf(file string) (int, bool) {
	for _, gen := range dex.Generations() {
		if file == fetcher.SnapshotName(gen) {
			return gen, true
		}
	}
	return 0, false
}
