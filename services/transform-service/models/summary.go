package models

// Object outcomes reported in ObjectSummary.Status.
const (
	ObjectProcessed = "processed"
	ObjectSkipped   = "skipped"
	ObjectFailed    = "failed"
)

// RowFailure locates one row that could not be decoded, transformed or delivered.
type RowFailure struct {
	Object   string `json:"object"`
	RowIndex int    `json:"rowIndex"`
	Error    string `json:"error"`
}

// ObjectSummary holds the counters for one object of a notification.
type ObjectSummary struct {
	Bucket         string `json:"bucket"`
	Key            string `json:"key"`
	Status         string `json:"status"`
	TotalRows      int    `json:"totalRows"`
	SuccessfulRows int    `json:"successfulRows"`
	FailedRows     int    `json:"failedRows"`
	Error          string `json:"error,omitempty"`
}

// ProcessingSummary aggregates one notification. ProcessedFiles is the number
// of records in the notification, whatever happened to each of them.
type ProcessingSummary struct {
	Message        string          `json:"message"`
	ProcessedFiles int             `json:"processedFiles"`
	SkippedFiles   int             `json:"skippedFiles"`
	FailedFiles    int             `json:"failedFiles"`
	TotalRows      int             `json:"totalRows"`
	SuccessfulRows int             `json:"successfulRows"`
	FailedRows     int             `json:"failedRows"`
	Objects        []ObjectSummary `json:"objects"`
	Failures       []RowFailure    `json:"failures"`
}

// Add folds one object's counters into the summary.
func (s *ProcessingSummary) Add(obj ObjectSummary) {
	switch obj.Status {
	case ObjectSkipped:
		s.SkippedFiles++
	case ObjectFailed:
		s.FailedFiles++
	}
	s.TotalRows += obj.TotalRows
	s.SuccessfulRows += obj.SuccessfulRows
	s.FailedRows += obj.FailedRows
	s.Objects = append(s.Objects, obj)
}
