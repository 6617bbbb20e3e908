// Package redis connects to a Redis server with retries and exposes a health
// check for readiness probes.
//
// Configuration is read from the environment through Config:
//
//	cfg := config.MustLoad[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redisstore.New[session.UserContainer](client)
//	check := redis.Healthcheck(client)
//
// Errors are sentinels joined with the go-redis cause, so errors.Is works
// against both.
package redis
