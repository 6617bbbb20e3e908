package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("mongo.connect_failed")
	ErrHealthcheckFailed      = errors.New("mongo.unhealthy")
)
