// Package logger builds *slog.Logger values with functional options and
// injects attributes pulled from context.Context on every record.
//
// New picks a text or JSON handler and wraps it in LogHandlerDecorator, which
// runs the registered ContextExtractor callbacks before delegating. The
// logger is returned, never installed globally; components receive it by
// injection.
//
//	log := logger.NewFromConfig(cfg,
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "session assertion failed", logger.Reason(err.Error()))
//
// Attribute helpers such as Error, SessionID and Component keep key names
// consistent. Error and Errors return an empty attribute for nil errors, so
// they can be passed without a nil check. Discard returns a logger for
// components constructed without one.
package logger
