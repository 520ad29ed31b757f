// Package logger builds *slog.Logger instances with functional options,
// consistent attribute helpers and transparent injection of values stored in
// context.Context.
//
// New selects the concrete handler from the configured Format: slog's JSON or
// text handler, or a human friendly console handler from
// github.com/charmbracelet/log. The handler is then wrapped with
// LogHandlerDecorator, which runs any registered ContextExtractor callbacks
// before delegating.
//
// Attribute helpers (AccountID, FromState, ToState, Executed, Error, ...) keep
// key names consistent across the worker so transition records can be queried
// uniformly.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "account-worker"),
//	    logger.WithLevelName(cfg.LogLevel),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "transition handled",
//	    logger.AccountID(id),
//	    logger.FromState("ACCOUNT_ACTIVE"),
//	    logger.ToState("ACCOUNT_ARCHIVED"),
//	    logger.Executed(true),
//	)
package logger
