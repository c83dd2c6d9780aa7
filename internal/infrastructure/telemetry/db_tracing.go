package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds GORM tracing configuration.
type DBTracingConfig struct {
	Enabled bool
	DBName  string
	// LogFullSQL keeps bound variables in span statements. Development only.
	LogFullSQL bool
}

// RegisterDBTracing installs the otelgorm plugin on db
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	// Pool stats come from RegisterDBPoolMetrics
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName), otelgorm.WithoutMetrics()}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.LogFullSQL))
	return nil
}
