// Package logging provides structured logging for wellnessd built on Zap.
//
// All components receive a *zap.Logger through their constructors; none of
// them construct loggers themselves. The daemon builds one logger at startup
// from configuration and threads it through the dependency graph.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// # Testing
//
// NewTestLogger returns a logger backed by zaptest/observer so tests can
// assert on emitted entries:
//
//	tl := logging.NewTestLogger()
//	svc := orchestrator.New(..., tl.Logger)
//	tl.AssertLogged(t, zapcore.InfoLevel, "handoff")
package logging
