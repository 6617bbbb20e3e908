package redisstore

import "errors"

var (
	ErrEncodeContainer = errors.New("redisstore.encode_container_failed")
	ErrDecodeContainer = errors.New("redisstore.decode_container_failed")
	ErrCorruptRecord   = errors.New("redisstore.corrupt_record")
)
