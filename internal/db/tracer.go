package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type traceKey struct{}

type traceStart struct {
	sql  string
	args []any
	at   time.Time
}

// QueryTracer пишет выполненные запросы в zerolog; медленные и
// завершившиеся ошибкой - на уровне warn.
type QueryTracer struct {
	log  zerolog.Logger
	slow time.Duration
	now  func() time.Time
}

// NewQueryTracer создаёт трассировщик запросов с порогом медленного запроса.
// Нулевой порог отключает пометку медленных запросов.
func NewQueryTracer(logger zerolog.Logger, slow time.Duration) *QueryTracer {
	return &QueryTracer{
		log:  logger.With().Str("component", "pg").Logger(),
		slow: slow,
		now:  time.Now,
	}
}

// TraceQueryStart запоминает запрос и время начала.
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, args: data.Args, at: t.now()})
}

// TraceQueryEnd логирует запрос с длительностью.
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(start.at)
	slow := t.slow > 0 && elapsed >= t.slow

	evt := t.log.Debug()
	if slow || data.Err != nil {
		evt = t.log.Warn()
	}
	evt.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", compact(start.sql)).
		Int("args", len(start.args)).
		Err(data.Err).
		Msg("pg query")
}

// compact схлопывает пробельные символы SQL в один пробел.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
