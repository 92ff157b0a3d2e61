// Package logger builds the slog.Logger the SDK components accept through
// their WithLogger options.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//		logger.WithAttr(slog.String("app", "storefront")),
//	)
//
//	id := identity.New(gw, codec, identity.WithLogger(log))
//
// Deployments that configure logging through the environment load the level
// and format with the config package:
//
//	log := logger.NewFromConfig(config.MustLoad[logger.Config]())
package logger
