package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	goSession "github.com/MrEthical07/goSession"
)

// runtime is an engine wired to its configured backend.
type runtime struct {
	fc      FileConfig
	backend *backend
	engine  *goSession.Engine
	audit   io.Closer
}

func newRuntime(ctx context.Context, fc FileConfig) (*runtime, error) {
	cfg, err := fc.EngineConfig()
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, fc, logger)
	if err != nil {
		return nil, err
	}
	rt := &runtime{fc: fc, backend: b}

	builder := goSession.New().
		WithConfig(cfg).
		WithSessionStore(b.sessions).
		WithUsers(b.users).
		WithPasswordVerifier(b.hasher).
		WithLogger(logger)

	switch fc.AuditLog {
	case "":
	case "-":
		builder = builder.WithAuditSink(goSession.NewJSONWriterSink(os.Stdout))
	default:
		f, err := os.OpenFile(fc.AuditLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		rt.audit = f
		builder = builder.WithAuditSink(goSession.NewJSONWriterSink(f))
	}

	engine, err := builder.Build()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	rt.engine = engine
	return rt, nil
}

// Close flushes audit events before closing the stores.
func (rt *runtime) Close() {
	if rt.engine != nil {
		rt.engine.Close()
	}
	if rt.audit != nil {
		_ = rt.audit.Close()
	}
	if err := rt.backend.Close(); err != nil {
		logger.Error("close backend", "error", err)
	}
}
