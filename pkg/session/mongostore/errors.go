package mongostore

import "errors"

var (
	ErrIndexCreation = errors.New("mongostore.index_creation_failed")
	ErrMalformedID   = errors.New("mongostore.malformed_id")
)
