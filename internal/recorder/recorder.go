package recorder

// AlertEvent records one fired trigger.
type AlertEvent struct {
	Symbol    string
	Date      string
	TriggerID string
	Price     float64
	VWAP      float64
	Message   string
}

// PollSnapshot records one quote observation taken by a poll.
type PollSnapshot struct {
	Symbol    string
	Source    string
	Price     float64
	PrevClose float64
	High      float64
	Low       float64
	Volume    float64
	Amount    float64
	VWAP      float64
}

// Recorder persists alert history for later review.
type Recorder interface {
	RecordAlert(evt *AlertEvent) error
	RecordPoll(snap *PollSnapshot) error
	Close() error
}
