package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingPlugin installs otelgorm plus slow query detection
type DBTracingPlugin struct {
	enabled        bool
	logFullSQL     bool
	slowQuery      time.Duration
	dbSystem       string
	tracerProvider trace.TracerProvider
	logger         *zap.Logger
}

// DBTracingOption configures a DBTracingPlugin
type DBTracingOption func(*DBTracingPlugin)

// WithDBSystem overrides the db.system reported on spans
func WithDBSystem(name string) DBTracingOption {
	return func(p *DBTracingPlugin) {
		p.dbSystem = name
	}
}

// WithDBTracerProvider sends spans to tp instead of the global provider
func WithDBTracerProvider(tp trace.TracerProvider) DBTracingOption {
	return func(p *DBTracingPlugin) {
		p.tracerProvider = tp
	}
}

// NewDBTracingPlugin builds the plugin from the telemetry settings
func NewDBTracingPlugin(cfg config.TelemetryConfig, logger *zap.Logger, opts ...DBTracingOption) *DBTracingPlugin {
	p := &DBTracingPlugin{
		enabled:    cfg.DBTraceEnabled,
		logFullSQL: cfg.DBLogFullSQL,
		slowQuery:  cfg.DBSlowQueryThresh,
		dbSystem:   "postgresql",
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type queryStartKey struct{}

// gorm's callback builders are unexported; only Register is needed here
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register attaches otelgorm and the timing callbacks to db
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.tracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.tracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	hooks := []struct {
		name   string
		before callbackRegistrar
		after  callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("pis_timing:before_"+h.name, markQueryStart); err != nil {
			return err
		}
		if err := h.after.Register("pis_timing:after_"+h.name, p.afterQuery); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowQuery),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	recording := span.IsRecording()

	if recording {
		span.SetAttributes(
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
			attribute.String("db.sql.table", db.Statement.Table),
		)
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= p.slowQuery {
		return
	}

	fields := []zap.Field{
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", p.slowQuery),
	}
	if p.logFullSQL {
		fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
	}
	p.logger.Warn("slow query", fields...)

	if recording {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
		))
	}
}
