package main

import (
	"database/sql"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"pokedex/internal/grpcserver"
	"pokedex/internal/pokemon"
	"pokedex/internal/sprite"
	"pokedex/pkg/database"
	"pokedex/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("grpc listen failed: %v", err)
	}

	grpcServer := newServer(cfg, db, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
	if err := grpcServer.Serve(listener); err != nil {
		logger.Fatal("grpc server stopped", zap.Error(err))
	}
}

// newServer wires the read service over db, serving sprites from
// cfg.SpriteBase when set.
func newServer(cfg utils.Config, db *sql.DB, logger *zap.Logger) *grpc.Server {
	resolver := sprite.Default()
	if cfg.SpriteBase != "" {
		resolver = resolver.WithBase(cfg.SpriteBase)
	}
	svc := grpcserver.NewServer(pokemon.NewRepo(db), sprite.NewHandler(resolver), logger)
	return grpcserver.NewGRPCServer(svc)
}
