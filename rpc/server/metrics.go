package server

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/sybd/lib/db"
	"github.com/VictoriaMetrics/metrics"
)

// serverMetrics holds the metrics of one server instance.
// Each server has its own set, so several servers can run in one process.
type serverMetrics struct {
	set       *metrics.Set
	errors    *metrics.Counter
	saves     *metrics.Counter
	durations *metrics.Histogram
}

func newServerMetrics(openConnections func() int) *serverMetrics {
	set := metrics.NewSet()

	m := &serverMetrics{
		set:       set,
		errors:    set.NewCounter("sybd_command_errors_total"),
		saves:     set.NewCounter("sybd_snapshot_saves_total"),
		durations: set.NewHistogram("sybd_command_duration_seconds"),
	}

	set.NewGauge("sybd_connections_open", func() float64 {
		return float64(openConnections())
	})

	return m
}

// observe records one executed command
func (m *serverMetrics) observe(verb string, start time.Time, err error) {
	if !db.IsCommand(verb) && verb != CmdSave {
		verb = "unknown"
	}
	m.set.GetOrCreateCounter(fmt.Sprintf(`sybd_commands_total{verb=%q}`, verb)).Inc()
	m.durations.UpdateDuration(start)
	if err != nil {
		m.errors.Inc()
	}
}
