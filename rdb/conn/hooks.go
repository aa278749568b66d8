package conn

import (
	"context"
	"time"

	"github.com/hatlonely/rdbadmin/log/logger"
)

type startKey struct{}

// queryHooks 通过 sqlhooks 记录每条语句的耗时和错误
type queryHooks struct {
	logger logger.Logger
}

func (h *queryHooks) Before(ctx context.Context, query string, args ...any) (context.Context, error) {
	return context.WithValue(ctx, startKey{}, time.Now()), nil
}

func (h *queryHooks) After(ctx context.Context, query string, args ...any) (context.Context, error) {
	h.logger.DebugContext(ctx, "sql",
		"query", query,
		"args", len(args),
		"duration", elapsed(ctx),
	)
	return ctx, nil
}

func (h *queryHooks) OnError(ctx context.Context, err error, query string, args ...any) error {
	h.logger.WarnContext(ctx, "sql failed",
		"query", query,
		"args", len(args),
		"duration", elapsed(ctx),
		"error", err,
	)
	return err
}

func elapsed(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(startKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}
