package resume

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes persisted values.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	// Name returns the codec identifier ("json" or "msgpack").
	Name() string
}

// Codec names.
const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Defaults to JSON.
func GetCodec(name string) Codec {
	switch name {
	case CodecNameMsgpack:
		return MsgpackCodec{}
	default:
		return JSONCodec{}
	}
}

// JSONCodec encodes values as JSON. It is readable by any frontend sharing
// the store.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error)    { return json.Marshal(v) }
func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONCodec) Name() string                    { return CodecNameJSON }

// MsgpackCodec encodes values as MessagePack.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(v any) ([]byte, error)    { return msgpack.Marshal(v) }
func (MsgpackCodec) Decode(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgpackCodec) Name() string                    { return CodecNameMsgpack }
