// Package mongo provides MongoDB connection management driven by environment
// configuration.
//
// New retries the initial connection so a service can start before its
// database is reachable, and Healthcheck exposes a ping suitable for
// readiness probes.
//
// # Usage
//
//	cfg := config.MustLoad[mongo.Config]()
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	store := mongostore.New[session.UserContainer](db.Collection("sessions"))
//
// Connection failures are reported as ErrFailedToConnectToMongo joined with
// the last driver error; use errors.Is to test for them.
package mongo
