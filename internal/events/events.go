package events

import "time"

var InternshipAddedTopic = "InternshipAddedEvent"

type InternshipAdded struct {
	ExternalID string
	Title      string
	Company    string
	Type       string
}

var ScrapeCompletedTopic = "ScrapeCompletedEvent"

type ScrapeCompleted struct {
	Found        int
	DroppedOld   int
	Added        int
	Duplicates   int
	Skipped      int
	Failed       int
	PagesFetched int
	StopReason   string
	Interrupted  bool
	TotalInStore int64
	Duration     time.Duration
	FinishedAt   time.Time
}
