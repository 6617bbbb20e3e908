package session

import "encoding/json"

// Codec serializes a session container for backends that store it as bytes.
type Codec[C any] interface {
	Encode(container C) ([]byte, error)
	Decode(data []byte) (C, error)
}

// JSONCodec encodes containers with encoding/json.
type JSONCodec[C any] struct{}

func (JSONCodec[C]) Encode(container C) ([]byte, error) {
	return json.Marshal(container)
}

func (JSONCodec[C]) Decode(data []byte) (C, error) {
	var container C
	if len(data) == 0 {
		return container, nil
	}
	err := json.Unmarshal(data, &container)
	return container, err
}
