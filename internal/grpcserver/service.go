package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"pokedex/internal/sprite"
	"pokedex/pkg/models"
)

const serviceName = "pokedex.v1.Pokedex"

type GetEntryRequest struct {
	ID    int    `json:"id"`
	Style string `json:"style,omitempty"`
	Shiny bool   `json:"shiny,omitempty"`
	Form  string `json:"form,omitempty"`
}

type GetEntryResponse struct {
	Entry  models.Entry      `json:"entry"`
	Sprite sprite.SpriteView `json:"sprite"`
}

type ListGenerationRequest struct {
	Generation int `json:"generation"`
	Limit      int `json:"limit,omitempty"`
	Offset     int `json:"offset,omitempty"`
}

type ListResponse struct {
	Total int            `json:"total"`
	Items []models.Entry `json:"items"`
}

type SearchRequest struct {
	Query string `json:"query"`
	// Generation 0 searches every cached generation.
	Generation int `json:"generation,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Offset     int `json:"offset,omitempty"`
}

type ResolveSpriteRequest struct {
	ID    int    `json:"id"`
	Style string `json:"style,omitempty"`
	Shiny bool   `json:"shiny,omitempty"`
	Form  string `json:"form,omitempty"`
}

// PokedexServer is the server API of pokedex.v1.Pokedex.
type PokedexServer interface {
	GetEntry(context.Context, *GetEntryRequest) (*GetEntryResponse, error)
	ListGeneration(context.Context, *ListGenerationRequest) (*ListResponse, error)
	Search(context.Context, *SearchRequest) (*ListResponse, error)
	ResolveSprite(context.Context, *ResolveSpriteRequest) (*sprite.SpriteView, error)
}

func unary[Req, Resp any](method string, call func(PokedexServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PokedexServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PokedexServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes pokedex.v1.Pokedex for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PokedexServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetEntry", PokedexServer.GetEntry),
		unary("ListGeneration", PokedexServer.ListGeneration),
		unary("Search", PokedexServer.Search),
		unary("ResolveSprite", PokedexServer.ResolveSprite),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pokedex/v1/pokedex",
}

func RegisterPokedexServer(s grpc.ServiceRegistrar, srv PokedexServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls pokedex.v1.Pokedex.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *Client) GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*GetEntryResponse, error) {
	out := new(GetEntryResponse)
	if err := c.invoke(ctx, "GetEntry", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListGeneration(ctx context.Context, in *ListGenerationRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.invoke(ctx, "ListGeneration", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.invoke(ctx, "Search", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ResolveSprite(ctx context.Context, in *ResolveSpriteRequest, opts ...grpc.CallOption) (*sprite.SpriteView, error) {
	out := new(sprite.SpriteView)
	if err := c.invoke(ctx, "ResolveSprite", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
