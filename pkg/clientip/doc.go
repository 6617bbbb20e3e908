// Package clientip resolves the address of the client behind a request.
//
// By default only RemoteAddr is used. Deployments behind a reverse proxy
// enable proxy headers (CF-Connecting-IP, X-Forwarded-For, X-Real-IP):
//
//	r.Use(clientip.Middleware(cfg.TrustProxy))
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//
// Addresses are normalized; IPv4-mapped IPv6 addresses are returned in
// dotted form and zones are stripped.
package clientip
