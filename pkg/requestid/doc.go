// Package requestid correlates log records of one HTTP request.
//
// Middleware assigns every request an identifier, reusing a client-supplied
// X-Request-ID when it is well formed, and LoggerExtractor injects it into
// records logged with the request context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	router.Use(requestid.Middleware)
package requestid
