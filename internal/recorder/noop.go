package recorder

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAlert(_ *AlertEvent) error  { return nil }
func (n *NoopRecorder) RecordPoll(_ *PollSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                     { return nil }
