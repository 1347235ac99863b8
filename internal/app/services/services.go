package services

import "github.com/pblab/pblab/internal/app/models"

// Services defined in this package:
// - AuthService: registration, login and token refresh
// - ObjectiveService: individual learning objective lifecycle and minimums
// - ArtifactService: evidence artifact portfolio management
// - AssessmentService: individual assessment submission and educator feedback

// EvidenceTarget is the advisory portfolio size each student works toward
// per project.
const EvidenceTarget = 10

// Actor is the authenticated identity a request acts as, resolved by the JWT
// middleware and threaded through every service call.
type Actor struct {
	ID   string
	Role models.RoleType
}

// progressPercentage converts an evidence count into a capped percentage of
// the portfolio target.
func progressPercentage(count int) int {
	pct := count * 100 / EvidenceTarget
	if pct > 100 {
		pct = 100
	}
	return pct
}
