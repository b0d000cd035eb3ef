// Package proto holds the wire contract of the gatekeeper.v1.AuthService gRPC
// service: request and response messages, the service descriptor used by the
// server, and the client stub. Messages travel as JSON using the codec
// registered under the "json" content-subtype. gatekeeper.proto is the
// schema these types follow; contract_test.go keeps the two in step.
package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype ("application/grpc+json").
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
