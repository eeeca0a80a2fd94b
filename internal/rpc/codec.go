package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec using JSON rather than protobuf wire
// format. Registered under the name "proto" (the codec grpc selects by
// default for every call that doesn't opt into a CallContentSubtype), it
// lets this service speak real gRPC framing — HTTP/2, length-prefixed
// messages, trailers, status codes — over plain Go structs, with no protoc
// step required to generate marshal code.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
