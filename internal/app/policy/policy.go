// Package policy implements the access policy evaluator: per-record,
// per-identity read/write decisions that mirror what the database's row-level
// security enforces, so the same invariants are testable without a live
// database. The evaluator is the authoritative specification of the intended
// policy; the database's native RLS is an operational backstop.
package policy

import (
	"github.com/pblab/pblab/internal/app/models"
)

// Operation names a row-level operation, matching the SQL policy vocabulary.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// OwnedRecord is any record the evaluator can decide access for. A record is
// owned by a requester when any of its identity-bearing fields (id,
// student_id, user_id) equals the requester's id.
type OwnedRecord interface {
	OwnerIdentifiers() []string
	DeclaredOwner() string
}

// statusCarrier is implemented by records whose lifecycle status constrains
// deletion (assessments).
type statusCarrier interface {
	RecordStatus() string
}

// Evaluator decides, for a given authenticated identity, role and target
// record, whether a read or write is permitted. It is pure and stateless;
// concurrent calls are independent.
type Evaluator struct{}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// owns reports whether requesterID matches any identity-bearing field.
func owns(record OwnedRecord, requesterID string) bool {
	if requesterID == "" {
		return false
	}
	for _, id := range record.OwnerIdentifiers() {
		if id != "" && id == requesterID {
			return true
		}
	}
	return false
}

// CanAccess decides whether the requester may perform op against the record.
// Unknown roles and unknown operations are denied rather than raised: the
// evaluator fails closed.
func (e *Evaluator) CanAccess(record OwnedRecord, requesterID string, role models.RoleType, op Operation) bool {
	if record == nil || requesterID == "" {
		return false
	}

	// Administrative override bypasses per-record policy entirely.
	if role == models.RoleAdmin {
		return true
	}

	if role != models.RoleStudent && role != models.RoleEducator {
		return false
	}

	// Educators have no default record ownership; their only write path is
	// the record-scoped feedback grant checked by CanAttachFeedback.
	if role == models.RoleEducator {
		return false
	}

	switch op {
	case OpSelect:
		// Strict per-student isolation: no peer visibility.
		return owns(record, requesterID)
	case OpInsert:
		// A student cannot author a record under another student's identity.
		return record.DeclaredOwner() == requesterID
	case OpUpdate:
		return owns(record, requesterID)
	case OpDelete:
		if !owns(record, requesterID) {
			return false
		}
		// Students never delete an assessment that has entered review.
		if sc, ok := record.(statusCarrier); ok {
			switch models.AssessmentStatus(sc.RecordStatus()) {
			case models.AssessmentSubmitted, models.AssessmentCompleted:
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CanAttachFeedback reports whether the requester may attach score/feedback
// to an existing assessment. This is the educator's record-scoped grant: it
// never satisfies the insert-as-author rule, so educator-authored new
// assessments stay impossible.
func (e *Evaluator) CanAttachFeedback(assessment *models.IndividualAssessment, requesterID string, role models.RoleType) bool {
	if assessment == nil || requesterID == "" {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	if role != models.RoleEducator {
		return false
	}
	// Feedback attaches to persisted, validator-approved assessments only.
	return assessment.ID != ""
}
