package telemetry

import "testing"

func TestRecordMethodsToleratesNilReceiver(t *testing.T) {
	var m *Metrics
	// A nil Metrics must not panic: Materializer.Metrics is optional, and
	// callers that skip telemetry setup should still get a working
	// materializer.
	m.RecordSuccess(10)
	m.RecordFailure()
	m.RecordNode("SeqScan")
}

func TestNewMetricsRecordsWithoutPanicking(t *testing.T) {
	m := NewMetrics()
	m.RecordSuccess(42.5)
	m.RecordFailure()
	m.RecordNode("IndexScan")
	m.RecordNode("IndexScan")
}
