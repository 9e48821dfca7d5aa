// Package metrics holds Prometheus instruments for the CLI.  All collectors
// are registered with the global registry.  The CLI runs once per deploy
// hook, so instead of serving /metrics it writes a node-exporter textfile
// when `metrics.textfile` is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanizio/platformsettings/internal/settings"
)

var (
	RulesAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platformsettings_rules_applied_total",
			Help: "Cumulative number of settings rules that wrote output.",
		}, []string{"rule"})

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platformsettings_runs_total",
			Help: "Cumulative number of CLI runs by command and outcome.",
		}, []string{"command", "outcome"})

	OnPlatform = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "platformsettings_on_platform",
			Help: "1 when the last run found a platform environment, else 0.",
		})

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "platformsettings_last_run_timestamp_seconds",
			Help: "Unix time of the last CLI run.",
		})
)

func init() {
	prometheus.MustRegister(
		RulesAppliedTotal,
		RunsTotal,
		OnPlatform,
		LastRunTimestamp,
	)
}

// RecordReport counts the rules one ApplyDefaults pass applied.
func RecordReport(rep settings.Report) {
	if rep.Skipped != nil {
		OnPlatform.Set(0)
		return
	}
	OnPlatform.Set(1)
	for _, rule := range rep.Applied {
		RulesAppliedTotal.WithLabelValues(rule).Inc()
	}
}

// RecordRun counts one command outcome ("ok" or "error").
func RecordRun(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RunsTotal.WithLabelValues(command, outcome).Inc()
	LastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format.  The write is atomic (temp file plus rename).
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
