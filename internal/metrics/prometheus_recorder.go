package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "nextmod"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	modResults    *prom.CounterVec
	imageResults  *prom.CounterVec
	filesWritten  *prom.CounterVec
	bytesWritten  *prom.CounterVec
	modCount      prom.Gauge
	lastBuild     prom.Gauge
}

// NewPrometheusRecorder constructs metrics and registers them on reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"result"}),
		modResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "mod_pages_total",
			Help:      "Mod page generation results",
		}, []string{"result"}),
		imageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Processed images by picture type and result",
		}, []string{"kind", "result"}),
		filesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "output_files_total",
			Help:      "Files written to the output tree",
		}, []string{"kind"}),
		bytesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_total",
			Help:      "Bytes written to the output tree",
		}, []string{"kind"}),
		modCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "mods",
			Help:      "Mods loaded in the last build",
		}),
		lastBuild: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time the last build finished",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.modResults, pr.imageResults, pr.filesWritten, pr.bytesWritten, pr.modCount, pr.lastBuild)
	return pr
}

// Registry returns the registry the recorder's metrics live in.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
	p.lastBuild.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(result ResultLabel) {
	p.buildOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncModResult(result ResultLabel) {
	p.modResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncImageResult(kind string, result ResultLabel) {
	p.imageResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncFileWritten(kind string, bytes int) {
	p.filesWritten.WithLabelValues(kind).Inc()
	p.bytesWritten.WithLabelValues(kind).Add(float64(bytes))
}

func (p *PrometheusRecorder) SetModCount(n int) {
	p.modCount.Set(float64(n))
}

// WriteTextfile writes the registry in the text exposition format for the
// node-exporter textfile collector. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
