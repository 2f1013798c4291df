package domain

// ArticleProgress holds the per-stage status of one processed request.
// The predicates are derived from Steps on every call.
type ArticleProgress struct {
	ID    string
	Title string
	Steps map[StageKey]StageStatus
}

// NewArticleProgress seeds every stage as pending.
func NewArticleProgress(id, title string) ArticleProgress {
	steps := make(map[StageKey]StageStatus, len(stageOrder))
	for _, key := range stageOrder {
		steps[key] = Pending()
	}
	return ArticleProgress{ID: id, Title: title, Steps: steps}
}

// Status returns the stage status, pending when absent.
func (p ArticleProgress) Status(stage StageKey) StageStatus {
	if status, ok := p.Steps[stage]; ok {
		return status
	}
	return Pending()
}

// Clone copies the step map so the result can be modified independently.
func (p ArticleProgress) Clone() ArticleProgress {
	steps := make(map[StageKey]StageStatus, len(p.Steps))
	for k, v := range p.Steps {
		steps[k] = v
	}
	return ArticleProgress{ID: p.ID, Title: p.Title, Steps: steps}
}

// IsCompleted is true when all five stages completed.
func (p ArticleProgress) IsCompleted() bool {
	for _, key := range stageOrder {
		if p.Status(key).State != StateCompleted {
			return false
		}
	}
	return true
}

// IsFailed is true when any stage errored.
func (p ArticleProgress) IsFailed() bool {
	for _, key := range stageOrder {
		if p.Status(key).State == StateError {
			return true
		}
	}
	return false
}

// IsInProgress is true when any stage is running.
func (p ArticleProgress) IsInProgress() bool {
	for _, key := range stageOrder {
		if p.Status(key).State == StateInProgress {
			return true
		}
	}
	return false
}

// IsTerminal is true once every stage reached completed or error.
func (p ArticleProgress) IsTerminal() bool {
	for _, key := range stageOrder {
		if !p.Status(key).State.Terminal() {
			return false
		}
	}
	return true
}

// Persisted reports whether the database stage completed.
func (p ArticleProgress) Persisted() bool {
	return p.Status(StageDatabase).State == StateCompleted
}
