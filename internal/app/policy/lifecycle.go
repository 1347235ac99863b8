package policy

import "github.com/pblab/pblab/internal/app/models"

// objectiveTransitions is the objective lifecycle state machine:
// draft -> active -> completed, with revised reachable from active or
// completed when the owning student edits a completed objective, and revised
// reopening the cycle non-destructively.
var objectiveTransitions = map[models.ObjectiveStatus][]models.ObjectiveStatus{
	models.ObjectiveDraft:     {models.ObjectiveActive},
	models.ObjectiveActive:    {models.ObjectiveCompleted, models.ObjectiveRevised},
	models.ObjectiveCompleted: {models.ObjectiveRevised},
	models.ObjectiveRevised:   {models.ObjectiveActive},
}

// CanTransition reports whether an objective may move from one lifecycle
// status to another. The caller is responsible for verifying the requester
// owns the objective; no transition is permitted by a non-owning identity.
func CanTransition(from, to models.ObjectiveStatus) bool {
	for _, next := range objectiveTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
