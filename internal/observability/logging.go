package observability

import (
	"context"
	"log/slog"
)

// RepoLogger emits structured records for repository writes and failures.
type RepoLogger struct {
	logger *slog.Logger
}

// NewRepoLogger scopes base to a table.
func NewRepoLogger(base *slog.Logger, table string) *RepoLogger {
	return &RepoLogger{logger: base.With(slog.String("component", "repository"), slog.String("table", table))}
}

func (l *RepoLogger) LogCreate(ctx context.Context, id uint, attrs ...any) {
	l.logger.InfoContext(ctx, "record created", append([]any{slog.Any("id", id)}, attrs...)...)
}

func (l *RepoLogger) LogUpdate(ctx context.Context, id uint, attrs ...any) {
	l.logger.DebugContext(ctx, "record updated", append([]any{slog.Any("id", id)}, attrs...)...)
}

func (l *RepoLogger) LogDelete(ctx context.Context, id uint, attrs ...any) {
	l.logger.InfoContext(ctx, "record deleted", append([]any{slog.Any("id", id)}, attrs...)...)
}

func (l *RepoLogger) LogError(ctx context.Context, operation string, err error, attrs ...any) {
	l.logger.ErrorContext(ctx, "repository operation failed",
		append([]any{slog.String("operation", operation), slog.String("error", err.Error())}, attrs...)...)
}
