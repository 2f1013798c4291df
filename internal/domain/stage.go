package domain

import "fmt"

// StageKey names one step of the fixed per-article sequence.
type StageKey string

const (
	StageTitleAndSummary StageKey = "titleAndSummary"
	StageContent         StageKey = "content"
	StageTLDR            StageKey = "tldr"
	StageImage           StageKey = "image"
	StageDatabase        StageKey = "database"
)

var stageOrder = []StageKey{
	StageTitleAndSummary,
	StageContent,
	StageTLDR,
	StageImage,
	StageDatabase,
}

// Stages returns the processing order shared by every article.
func Stages() []StageKey {
	out := make([]StageKey, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Label is the human readable column name.
func (k StageKey) Label() string {
	switch k {
	case StageTitleAndSummary:
		return "Summary"
	case StageContent:
		return "Content"
	case StageTLDR:
		return "TL;DR"
	case StageImage:
		return "Image"
	case StageDatabase:
		return "Database"
	default:
		return string(k)
	}
}

// StageState enumerates stage lifecycle milestones.
type StageState string

const (
	StatePending    StageState = "pending"
	StateInProgress StageState = "inProgress"
	StateCompleted  StageState = "completed"
	StateError      StageState = "error"
)

// Terminal reports whether the state will not change further within a run.
func (s StageState) Terminal() bool {
	return s == StateCompleted || s == StateError
}

// StageStatus is the tagged stage state; Message is only set for errors.
type StageStatus struct {
	State   StageState
	Message string
}

// Pending, InProgress, Completed and Failed build statuses.
func Pending() StageStatus    { return StageStatus{State: StatePending} }
func InProgress() StageStatus { return StageStatus{State: StateInProgress} }
func Completed() StageStatus  { return StageStatus{State: StateCompleted} }

func Failed(message string) StageStatus {
	return StageStatus{State: StateError, Message: message}
}

func (s StageStatus) String() string {
	if s.State == StateError && s.Message != "" {
		return fmt.Sprintf("%s: %s", s.State, s.Message)
	}
	return string(s.State)
}

// CanTransition enforces pending → inProgress → {completed | error}.
// pending → error is allowed for stages aborted before they start.
func CanTransition(from, to StageState) bool {
	switch from {
	case StatePending:
		return to == StateInProgress || to == StateError
	case StateInProgress:
		return to == StateCompleted || to == StateError
	default:
		return false
	}
}
