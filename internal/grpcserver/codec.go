package grpcserver

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Codec carries messages as JSON. It is registered under "json" so peers
// can also select it with grpc.CallContentSubtype("json").
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (Codec) Name() string                       { return "json" }

func init() {
	encoding.RegisterCodec(Codec{})
}
