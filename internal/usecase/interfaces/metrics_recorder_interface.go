package interfaces

//go:generate mockgen -source=metrics_recorder_interface.go -destination=mocks/mock_metrics_recorder_interface.go -package=mock_interfaces

// IMetricsRecorder receives use-case level measurements. Implementations
// must be safe for concurrent use.
type IMetricsRecorder interface {
	RecordTransition(target string, outcome string)
	RecordLivePush(outcome string)
}
