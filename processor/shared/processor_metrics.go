package shared

import (
	"rmrk-indexer/database"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ProcessorMetrics struct {
	// Remarks by final status and outcome
	remarks *prometheus.CounterVec

	// Block number of the last processed remark
	lastProcessedBlock prometheus.Gauge

	// Processing time in milliseconds
	processingTime prometheus.Gauge
}

// Outcome labels of processed remarks
const (
	OutcomeApplied   = "applied"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
	OutcomeMalformed = "malformed"
)

func NewProcessorMetrics(namespace string, registerer prometheus.Registerer) *ProcessorMetrics {
	factory := promauto.With(registerer)
	return &ProcessorMetrics{
		remarks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processed_remarks_total",
			Help:      "Number of processed remarks by outcome",
		}, []string{"outcome"}),
		lastProcessedBlock: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_processed_block",
			Help:      "Block number of the last processed remark",
		}),
		processingTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_processing_time",
			Help:      "Time of processing of the last batch in milliseconds",
		}),
	}
}

func (m *ProcessorMetrics) ObserveRemark(remark *database.Remark, outcome string) {
	m.remarks.WithLabelValues(outcome).Inc()
	m.lastProcessedBlock.Set(float64(remark.BlockNumber))
}

func (m *ProcessorMetrics) ObserveBatch(processingTime int64) {
	m.processingTime.Set(float64(processingTime))
}

func (m *ProcessorMetrics) RemarkCounter(outcome string) prometheus.Counter {
	return m.remarks.WithLabelValues(outcome)
}
