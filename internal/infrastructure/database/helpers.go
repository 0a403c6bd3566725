package database

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Ping verifies the database is reachable, bounded to 5 seconds.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("Closing database connection pool")
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats is a snapshot of the connection pool counters.
type PoolStats struct {
	AcquiredConns   int32
	IdleConns       int32
	TotalConns      int32
	MaxConns        int32
	AcquireCount    int64
	AcquireDuration time.Duration
	CanceledAcquire int64
	EmptyAcquire    int64
}

// Stats returns the current pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquiredConns:   raw.AcquiredConns(),
		IdleConns:       raw.IdleConns(),
		TotalConns:      raw.TotalConns(),
		MaxConns:        raw.MaxConns(),
		AcquireCount:    raw.AcquireCount(),
		AcquireDuration: raw.AcquireDuration(),
		CanceledAcquire: raw.CanceledAcquireCount(),
		EmptyAcquire:    raw.EmptyAcquireCount(),
	}, nil
}

// RegisterPoolMetrics exposes pool gauges on the given registerer.
// Values are read lazily at scrape time.
func (db *PostgresDB) RegisterPoolMetrics(reg prometheus.Registerer) error {
	gauge := func(name, help string, value func(*PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "housiee",
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			stats, err := db.Stats()
			if err != nil {
				return 0
			}
			return value(stats)
		})
	}

	collectors := []prometheus.Collector{
		gauge("acquired_conns", "Connections currently in use.", func(s *PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("idle_conns", "Idle connections in the pool.", func(s *PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("total_conns", "Total connections in the pool.", func(s *PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("max_conns", "Configured maximum pool size.", func(s *PoolStats) float64 { return float64(s.MaxConns) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register pool metric: %w", err)
		}
	}
	return nil
}

// MonitorPoolHealth logs a warning when the pool runs hot.
// Blocks until ctx is cancelled; run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				continue
			}

			if stats.MaxConns > 0 {
				utilization := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
				if utilization > 80 {
					log.Warn().
						Float64("utilization_pct", utilization).
						Int32("acquired", stats.AcquiredConns).
						Int32("max", stats.MaxConns).
						Msg("High database pool utilization")
				}
			}

			if avg := averageDuration(stats.AcquireDuration, stats.AcquireCount); avg > 100*time.Millisecond {
				log.Warn().Dur("avg_acquire", avg).Msg("High database acquire latency")
			}

		case <-ctx.Done():
			return
		}
	}
}

func averageDuration(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}
