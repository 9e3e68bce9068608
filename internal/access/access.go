// Package access is the permission matrix for complaints. Decisions are pure
// functions of the complaint and the actor; denials are logged for audit.
package access

import (
	"log"

	"complainthub/backend/internal/models"
)

// Action is what the actor is trying to do with a complaint.
type Action string

const (
	ActionView         Action = "VIEW"
	ActionUpdate       Action = "UPDATE"
	ActionDelete       Action = "DELETE"
	ActionChangeStatus Action = "CHANGE_STATUS"
)

// Can decides whether the actor may perform the action on the complaint.
// Admins bypass everything except the submitter-never-changes-status rule,
// which does not apply to them; a role matching the complaint's target role
// gets staff-level access to it.
func Can(c *models.Complaint, actorID string, actorRole models.Role, action Action) bool {
	allowed := decide(c, actorID, actorRole, action)
	if !allowed {
		log.Printf("WARN: access denied: actor=%s role=%s action=%s complaint=%s", actorID, actorRole, action, c.ID)
	}
	return allowed
}

func decide(c *models.Complaint, actorID string, actorRole models.Role, action Action) bool {
	isSubmitter := actorID != "" && c.SubmitterID == actorID
	isAdmin := actorRole == models.RoleAdmin
	isTarget := actorRole != "" && c.TargetRole == actorRole

	switch action {
	case ActionView:
		return isSubmitter || isAdmin || isTarget

	case ActionUpdate:
		if isAdmin || isTarget {
			return true
		}
		return isSubmitter && (c.Status == models.StatusOpen || c.Status == models.StatusSubmitted)

	case ActionDelete:
		if isAdmin {
			return true
		}
		return isSubmitter && c.Status == models.StatusOpen

	case ActionChangeStatus:
		// A submitter never changes status, not even on their own complaint.
		if isSubmitter && !isAdmin {
			return false
		}
		return isAdmin || isTarget
	}
	return false
}

// ShouldIncludeInList mirrors VIEW semantics for list filtering: students see
// their own complaints, admins see everything, any other role sees the
// complaints routed to it.
func ShouldIncludeInList(c *models.Complaint, actorID string, actorRole models.Role) bool {
	switch actorRole {
	case models.RoleStudent:
		return c.SubmitterID == actorID
	case models.RoleAdmin:
		return true
	default:
		return c.TargetRole == actorRole
	}
}
