package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Healthcheck returns a readiness probe that expects PONG from the server.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		reply, err := client.Ping(ctx).Result()
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if reply != "PONG" {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("unexpected ping reply %q", reply))
		}
		return nil
	}
}
