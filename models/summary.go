package models

import "time"

// SummaryStatus is the lifecycle state of a background summarization job.
type SummaryStatus string

const (
	SummaryQueued  SummaryStatus = "queued"
	SummaryRunning SummaryStatus = "running"
	SummaryDone    SummaryStatus = "done"
	SummaryFailed  SummaryStatus = "failed"
)

// SummaryRequest describes what to summarize. Exactly one of AudioPath and
// Text is expected; audio is transcribed first.
type SummaryRequest struct {
	AudioPath string `json:"audio_path,omitempty" validate:"required_without=Text"`
	Text      string `json:"text,omitempty" validate:"required_without=AudioPath"`
}

// SummaryJob is the state of one asynchronous transcription/summarization.
type SummaryJob struct {
	ID         string         `json:"id"`
	AccountID  int64          `json:"-"`
	Request    SummaryRequest `json:"-"`
	Status     SummaryStatus  `json:"status"`
	Transcript string         `json:"transcript,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	FinishedAt time.Time      `json:"finished_at,omitzero"`
}

// Finished reports whether the job reached a terminal state.
func (j SummaryJob) Finished() bool {
	return j.Status == SummaryDone || j.Status == SummaryFailed
}
