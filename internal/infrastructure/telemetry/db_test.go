package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func sumByAttrs(t *testing.T, m metricdata.Metrics) map[attribute.Distinct]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	out := map[attribute.Distinct]int64{}
	for _, dp := range sum.DataPoints {
		out[dp.Attributes.Equivalent()] = dp.Value
	}
	return out
}

func TestInstrumentDB_WithoutMeter(t *testing.T) {
	db := openTestDB(t)

	m, err := telemetry.InstrumentDB(db, telemetry.DBConfig{Tracing: true, DBSystem: "sqlite"}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, m.Stop())

	require.NoError(t, db.Create(&widget{ID: 1, Name: "asus"}).Error)
}

func TestInstrumentDB_QueryMetrics(t *testing.T) {
	db := openTestDB(t)
	provider, reader := newTestMeter(t)

	m, err := telemetry.InstrumentDB(db, telemetry.DBConfig{DBSystem: "sqlite", SlowQueryThreshold: time.Hour},
		provider.Meter("test"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })

	require.NoError(t, db.Create(&widget{ID: 1, Name: "asus"}).Error)
	var w widget
	require.NoError(t, db.First(&w, 1).Error)
	assert.ErrorIs(t, db.First(&w, 2).Error, gorm.ErrRecordNotFound)
	require.NoError(t, db.Delete(&widget{}, 1).Error)

	metrics := collect(t, reader)

	totals := sumByAttrs(t, metrics["db_query_total"])
	okSet := func(op string) attribute.Distinct {
		set := attribute.NewSet(
			telemetry.AttrDBOperation.String(op),
			telemetry.AttrDBTable.String("widgets"),
			attribute.String("status", "ok"),
		)
		return set.Equivalent()
	}
	assert.Equal(t, int64(1), totals[okSet("insert")])
	assert.Equal(t, int64(2), totals[okSet("select")], "record not found is not a failure")
	assert.Equal(t, int64(1), totals[okSet("delete")])

	_, ok := metrics["db_query_duration_seconds"]
	assert.True(t, ok)
	_, slow := metrics["db_slow_query_total"]
	assert.False(t, slow)

	pool, ok := metrics["db_pool_connections"]
	require.True(t, ok)
	gauge, ok := pool.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, gauge.DataPoints, 2)
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	db := openTestDB(t)
	provider, reader := newTestMeter(t)
	core, logs := observer.New(zap.DebugLevel)

	m, err := telemetry.InstrumentDB(db, telemetry.DBConfig{SlowQueryThreshold: 50 * time.Millisecond},
		provider.Meter("test"), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })

	ctx := context.Background()
	m.RecordQuery(ctx, "update", "payments", 80*time.Millisecond, errors.New("deadlock"))
	m.RecordQuery(ctx, "select", "payments", time.Millisecond, nil)

	metrics := collect(t, reader)
	slow := sumByAttrs(t, metrics["db_slow_query_total"])
	slowSet := attribute.NewSet(
		telemetry.AttrDBOperation.String("update"),
		telemetry.AttrDBTable.String("payments"),
	)
	assert.Equal(t, int64(1), slow[slowSet.Equivalent()])

	totals := sumByAttrs(t, metrics["db_query_total"])
	errSet := attribute.NewSet(
		telemetry.AttrDBOperation.String("update"),
		telemetry.AttrDBTable.String("payments"),
		attribute.String("status", "error"),
	)
	assert.Equal(t, int64(1), totals[errSet.Equivalent()])

	entries := logs.FilterMessage("Slow query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "payments", entries[0].ContextMap()["table"])
}
