// Package policy centralizes the portal's access-control decisions. Every
// request handler composes one of these pure predicates instead of re-deriving
// role checks inline, so the rule table lives in exactly one place.
package policy

import (
	"github.com/google/uuid"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

// Decision is the outcome of an access-control check. Denials carry a reason
// for logging; callers surface a uniform "access denied" so the reason never
// leaks whether a resource exists or belongs to someone else.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying decision with an internal reason.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// -- Journals --

// CanReadJournal permits the owner always, and a therapist only when the
// entry is flagged shared.
func CanReadJournal(role string, actorID, ownerID uuid.UUID, shared bool) Decision {
	if actorID == ownerID {
		return Allow()
	}
	if auth.IsTherapistRole(role) && shared {
		return Allow()
	}
	return Deny("journal is private to its owner")
}

// CanListSharedJournals permits a therapist to list another user's shared
// entries; clients may only list their own.
func CanListSharedJournals(role string, actorID, ownerID uuid.UUID) Decision {
	if actorID == ownerID {
		return Allow()
	}
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("only a therapist may view a client's shared journals")
}

// CanWriteJournal permits writes to one's own journal only, regardless of role.
func CanWriteJournal(actorID, ownerID uuid.UUID) Decision {
	if actorID == ownerID {
		return Allow()
	}
	return Deny("journal entries are writable by their owner only")
}

// -- Prompts --

// CanReadPrompt permits any authenticated role for global prompts; prompts
// scoped to a client are visible to that client and to therapists.
func CanReadPrompt(role string, actorID uuid.UUID, clientID *uuid.UUID) Decision {
	if clientID == nil {
		return Allow()
	}
	if auth.IsTherapistRole(role) || actorID == *clientID {
		return Allow()
	}
	return Deny("prompt is scoped to another client")
}

// CanWritePrompt permits therapists only.
func CanWritePrompt(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("prompts are managed by therapists")
}

// -- Care resources --

// CanReadResource mirrors CanReadPrompt: global resources are visible to any
// authenticated role, client-scoped ones to that client or a therapist.
func CanReadResource(role string, actorID uuid.UUID, clientID *uuid.UUID) Decision {
	if clientID == nil {
		return Allow()
	}
	if auth.IsTherapistRole(role) || actorID == *clientID {
		return Allow()
	}
	return Deny("resource is scoped to another client")
}

// CanWriteResource permits therapists only.
func CanWriteResource(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("resources are managed by therapists")
}

// -- Homework --

// CanReadHomework permits the assignment owner, and office_admin and above.
func CanReadHomework(role string, actorID, ownerID uuid.UUID) Decision {
	if actorID == ownerID || auth.IsOfficeAdminRole(role) {
		return Allow()
	}
	return Deny("homework belongs to another client")
}

// CanManageHomework guards create and delete: office_admin and above.
func CanManageHomework(role string) Decision {
	if auth.IsOfficeAdminRole(role) {
		return Allow()
	}
	return Deny("homework is assigned by office staff")
}

// CanUpdateHomeworkStatus permits the owner and office_admin and above. The
// ownership check is deliberate: an authenticated stranger must not flip
// another client's homework status.
func CanUpdateHomeworkStatus(role string, actorID, ownerID uuid.UUID) Decision {
	if actorID == ownerID || auth.IsOfficeAdminRole(role) {
		return Allow()
	}
	return Deny("homework status is updatable by its owner")
}

// -- Reminders --

// CanReadReminder permits the owner, and office_admin and above.
func CanReadReminder(role string, actorID, ownerID uuid.UUID) Decision {
	if actorID == ownerID || auth.IsOfficeAdminRole(role) {
		return Allow()
	}
	return Deny("reminder belongs to another client")
}

// CanWriteReminder guards create/update/delete: office_admin and above.
func CanWriteReminder(role string) Decision {
	if auth.IsOfficeAdminRole(role) {
		return Allow()
	}
	return Deny("reminders are managed by office staff")
}

// -- Treatment plans --

// CanReadPlan permits a therapist for any plan and a client for their own.
func CanReadPlan(role string, actorID, planClientID uuid.UUID) Decision {
	if auth.IsTherapistRole(role) || actorID == planClientID {
		return Allow()
	}
	return Deny("treatment plan belongs to another client")
}

// CanWritePlan guards plan, goal, and objective mutation: therapists only.
func CanWritePlan(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("treatment plans are managed by therapists")
}

// CanReadProgress permits therapists only; progress notes are clinician-facing.
func CanReadProgress(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("progress records are therapist-only")
}

// -- Audit & disclosures --

// CanReadAuditLogs permits therapists only.
func CanReadAuditLogs(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("audit logs are therapist-only")
}

// CanReadAccessHistory permits a user to view who accessed their own data.
func CanReadAccessHistory(actorID, subjectID uuid.UUID) Decision {
	if actorID == subjectID {
		return Allow()
	}
	return Deny("access history is self-service only")
}

// CanRecordDisclosure permits therapists only.
func CanRecordDisclosure(role string) Decision {
	if auth.IsTherapistRole(role) {
		return Allow()
	}
	return Deny("disclosures are recorded by therapists")
}

// CanReadDisclosures permits a therapist, or the client the disclosure is about.
func CanReadDisclosures(role string, actorID, clientID uuid.UUID) Decision {
	if auth.IsTherapistRole(role) || actorID == clientID {
		return Allow()
	}
	return Deny("disclosures concern another client")
}
