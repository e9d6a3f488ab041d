package auth

import (
	"fmt"

	"zanatli/internal/domain"
)

// Actor is the authenticated identity performing an operation: who they are
// and which of their roles is currently active. Action availability derives
// from the active role alone, never from the full role set.
type Actor struct {
	UserID     string
	ActiveRole string
}

// ForbiddenRoleError indicates the actor's active role does not permit the
// operation.
type ForbiddenRoleError struct {
	Required string
}

func (e ForbiddenRoleError) Error() string {
	return fmt.Sprintf("active role %s required", e.Required)
}

// NotParticipantError indicates the actor is neither the client nor the
// contractor of the job, or not the specific party the operation requires.
type NotParticipantError struct {
	JobID string
}

func (e NotParticipantError) Error() string {
	return fmt.Sprintf("not a participant of job %s", e.JobID)
}

// RequireRole checks the actor's active role against the one the operation
// demands.
func RequireRole(actor Actor, role string) error {
	if actor.ActiveRole != role {
		return ForbiddenRoleError{Required: role}
	}
	return nil
}

// RequireClient checks that the actor is the job's client acting as a client.
func RequireClient(actor Actor, j domain.Job) error {
	if err := RequireRole(actor, domain.RoleClient); err != nil {
		return err
	}
	if actor.UserID != j.ClientID {
		return NotParticipantError{JobID: j.ID}
	}
	return nil
}

// RequireContractor checks that the actor is the job's assigned contractor
// acting as a contractor.
func RequireContractor(actor Actor, j domain.Job) error {
	if err := RequireRole(actor, domain.RoleContractor); err != nil {
		return err
	}
	if actor.UserID != j.ContractorID {
		return NotParticipantError{JobID: j.ID}
	}
	return nil
}

// RequireParticipant checks that the actor is either party to the job,
// whichever role is active.
func RequireParticipant(actor Actor, j domain.Job) error {
	if actor.UserID != j.ClientID && actor.UserID != j.ContractorID {
		return NotParticipantError{JobID: j.ID}
	}
	return nil
}
