package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type poolMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	value     func(*pgxpool.Stat) float64
}

// PoolStatsCollector exports pgxpool statistics for the postgres store.
type PoolStatsCollector struct {
	pool    *pgxpool.Pool
	service string
	metrics []poolMetric
}

func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	metric := func(t prometheus.ValueType) func(string, string, func(*pgxpool.Stat) float64) poolMetric {
		return func(name, help string, v func(*pgxpool.Stat) float64) poolMetric {
			fq := prometheus.BuildFQName("ecotrail", "store_pool", name)
			return poolMetric{prometheus.NewDesc(fq, help, []string{"service"}, nil), t, v}
		}
	}
	gauge, counter := metric(prometheus.GaugeValue), metric(prometheus.CounterValue)

	return &PoolStatsCollector{
		pool:    pool,
		service: service,
		metrics: []poolMetric{
			gauge("acquired_connections", "Connections currently checked out.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
			gauge("idle_connections", "Connections idle in the pool.",
				func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
			gauge("connections", "Connections open, idle or in use.",
				func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
			gauge("max_connections", "Configured pool size.",
				func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
			counter("acquires_total", "Successful connection acquires.",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
			counter("acquire_seconds_total", "Time spent waiting to acquire connections.",
				func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
			counter("canceled_acquires_total", "Acquires abandoned because the context ended.",
				func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }),
			counter("empty_acquires_total", "Acquires that found no idle connection.",
				func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector with a fresh pool snapshot.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(stat), c.service)
	}
}

// RegisterPoolMetrics registers a pgxpool collector with reg.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool, service string) error {
	return reg.Register(NewPoolStatsCollector(pool, service))
}
