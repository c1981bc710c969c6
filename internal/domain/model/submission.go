package model

// SubmissionKind discriminates the two event kinds flowing through ingestion.
type SubmissionKind string

// Submission kinds.
const (
	SubmissionScore  SubmissionKind = "score"
	SubmissionUnlock SubmissionKind = "unlock"
)

// Submission is the unit of work queued between the API and the ingestion
// workers: either one score event or one unlock event.
type Submission struct {
	Kind   SubmissionKind
	Score  ScoreEvent
	Unlock UnlockEvent
}

// NewScoreSubmission wraps a score event for ingestion.
func NewScoreSubmission(e ScoreEvent) Submission {
	return Submission{Kind: SubmissionScore, Score: e}
}

// NewUnlockSubmission wraps an unlock event for ingestion.
func NewUnlockSubmission(e UnlockEvent) Submission {
	return Submission{Kind: SubmissionUnlock, Unlock: e}
}

// EventID returns the wrapped event's idempotency id.
func (s Submission) EventID() string {
	if s.Kind == SubmissionUnlock {
		return s.Unlock.EventID
	}
	return s.Score.EventID
}

// Validate delegates to the wrapped event.
func (s Submission) Validate() error {
	if s.Kind == SubmissionUnlock {
		return s.Unlock.Validate()
	}
	return s.Score.Validate()
}
