package pgstore

import "errors"

var (
	ErrEncodeContainer = errors.New("pgstore.encode_container_failed")
	ErrDecodeContainer = errors.New("pgstore.decode_container_failed")
)
