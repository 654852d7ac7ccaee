package grpcserver

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pokedex/internal/dex"
	"pokedex/internal/pokemon"
	"pokedex/internal/sprite"
	"pokedex/pkg/utils"
)

type Server struct {
	Repo    *pokemon.Repo
	Sprites *sprite.Handler
	Logger  *zap.Logger
}

func NewServer(repo *pokemon.Repo, sprites *sprite.Handler, logger *zap.Logger) *Server {
	if sprites == nil {
		sprites = sprite.NewHandler(nil)
	}
	return &Server{Repo: repo, Sprites: sprites, Logger: utils.OrNop(logger)}
}

// NewGRPCServer builds a grpc.Server speaking the JSON codec with the
// service registered.
func NewGRPCServer(s *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ForceServerCodec(Codec{}),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(s.Logger)),
	}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterPokedexServer(gs, s)
	return gs
}

// LoggingInterceptor logs each call with its status code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = utils.OrNop(logger)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)))
		return resp, err
	}
}

func (s *Server) styleOr(style string, id int) string {
	if strings.TrimSpace(style) == "" {
		return s.Sprites.Resolver.DefaultStyleFor(dex.GenerationOf(id))
	}
	return style
}

func (s *Server) GetEntry(ctx context.Context, req *GetEntryRequest) (*GetEntryResponse, error) {
	if req == nil || req.ID < 1 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	e, err := s.Repo.GetByID(ctx, req.ID)
	if err != nil {
		s.Logger.Error("grpc get entry", zap.Int("id", req.ID), zap.Error(err))
		return nil, status.Error(codes.Internal, "get failed")
	}
	if e == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}

	return &GetEntryResponse{
		Entry:  *e,
		Sprite: s.Sprites.View(e.ID, s.styleOr(req.Style, e.ID), req.Shiny, req.Form),
	}, nil
}

func (s *Server) ListGeneration(ctx context.Context, req *ListGenerationRequest) (*ListResponse, error) {
	if req == nil || !dex.ValidGeneration(req.Generation) {
		return nil, status.Error(codes.InvalidArgument, "invalid generation")
	}

	total, err := s.Repo.CountByGeneration(ctx, req.Generation)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}
	items, err := s.Repo.ListByGeneration(ctx, req.Generation, req.Limit, req.Offset)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}
	return &ListResponse{Total: total, Items: items}, nil
}

func (s *Server) Search(ctx context.Context, req *SearchRequest) (*ListResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	if req.Generation != 0 && !dex.ValidGeneration(req.Generation) {
		return nil, status.Error(codes.InvalidArgument, "invalid generation")
	}

	items, total, err := s.Repo.Search(ctx, req.Query, req.Generation, req.Limit, req.Offset)
	if err != nil {
		return nil, status.Error(codes.Internal, "search failed")
	}
	return &ListResponse{Total: total, Items: items}, nil
}

func (s *Server) ResolveSprite(ctx context.Context, req *ResolveSpriteRequest) (*sprite.SpriteView, error) {
	if req == nil || req.ID < 1 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	v := s.Sprites.View(req.ID, s.styleOr(req.Style, req.ID), req.Shiny, req.Form)
	return &v, nil
}
