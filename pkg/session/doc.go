// Package session implements server-side sessions bound to an opaque
// identifier carried by a cookie or a custom header.
//
// A Manager resolves the identifier presented on a request, atomically
// extends the matching record in a Store and hands the session to the caller
// for the duration of one scope. A session marked with Delete inside that
// scope is removed from the store when the scope exits, on every exit path.
//
// # Resolution
//
// Resolve and Use report failures with sentinel errors:
//
//	ErrNotPresented  no identifier, or one that is not a UUID
//	ErrNotFound      no active, unexpired record for the identifier
//	ErrUserInactive  the record exists but its subject is disabled
//	ErrStoreFailure  the backend could not answer
//
// The first three are access denials and IsUnauthorized reports them.
// Store failures are never folded into ErrNotFound.
//
// Each successful resolution moves ValidTill to max(ValidTill, now+validity)
// in a single conditional update, so concurrent requests can only extend a
// session, never shorten or revive it.
//
// # Usage
//
//	store := session.NewMemoryStore[session.UserContainer](5 * time.Minute)
//	manager, err := session.NewFromConfig[session.UserContainer](cfg, store, cookie.New(), session.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
//		_, err := manager.Login(r.Context(), w, session.UserContainer{UserID: userID})
//		...
//	})
//
//	r.With(manager.RequireSession).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//		userID, _ := session.UserIDFromContext(r.Context())
//		...
//	})
//
// # Stores
//
// MemoryStore is suitable for tests and single-process deployments. The
// mongostore, redisstore and pgstore sub-packages provide shared backends;
// each is verified against the storetest contract suite.
package session
