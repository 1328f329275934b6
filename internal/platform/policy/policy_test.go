package policy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

func TestCanReadJournal(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()

	if d := CanReadJournal(auth.RoleClient, owner, owner, false); !d.Allowed {
		t.Error("owner should read own private entry")
	}
	if d := CanReadJournal(auth.RoleTherapist, stranger, owner, true); !d.Allowed {
		t.Error("therapist should read shared entry")
	}
	if d := CanReadJournal(auth.RoleTherapist, stranger, owner, false); d.Allowed {
		t.Error("therapist must not read private entry")
	}
	if d := CanReadJournal(auth.RoleClient, stranger, owner, true); d.Allowed {
		t.Error("another client must not read a shared entry")
	}
	if d := CanReadJournal(auth.RoleOfficeAdmin, stranger, owner, true); d.Allowed {
		t.Error("office admin must not read journals")
	}
}

func TestCanWriteJournal_OwnerOnly(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	if d := CanWriteJournal(owner, owner); !d.Allowed { t.Error("owner write denied") }
	if d := CanWriteJournal(stranger, owner); d.Allowed { t.Error("non-owner write allowed") }
}

func TestCanReadPrompt_Scoping(t *testing.T) {
	me, other := uuid.New(), uuid.New()

	if d := CanReadPrompt(auth.RoleClient, me, nil); !d.Allowed {
		t.Error("global prompt should be readable by any role")
	}
	if d := CanReadPrompt(auth.RoleClient, me, &me); !d.Allowed {
		t.Error("client should read a prompt scoped to them")
	}
	if d := CanReadPrompt(auth.RoleClient, me, &other); d.Allowed {
		t.Error("client must not read another client's prompt")
	}
	if d := CanReadPrompt(auth.RoleTherapist, me, &other); !d.Allowed {
		t.Error("therapist should read any scoped prompt")
	}
}

func TestCanWritePrompt_TherapistOnly(t *testing.T) {
	if d := CanWritePrompt(auth.RoleTherapist); !d.Allowed { t.Error("therapist denied") }
	if d := CanWritePrompt(auth.RoleOfficeAdmin); d.Allowed { t.Error("office admin allowed") }
	if d := CanWritePrompt(auth.RoleClient); d.Allowed { t.Error("client allowed") }
}

func TestCanReadHomework(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	if d := CanReadHomework(auth.RoleClient, owner, owner); !d.Allowed { t.Error("owner denied") }
	if d := CanReadHomework(auth.RoleClient, stranger, owner); d.Allowed { t.Error("stranger allowed") }
	if d := CanReadHomework(auth.RoleOfficeAdmin, stranger, owner); !d.Allowed { t.Error("office admin denied") }
	if d := CanReadHomework(auth.RoleTherapist, stranger, owner); !d.Allowed { t.Error("therapist denied") }
}

func TestCanUpdateHomeworkStatus_RequiresOwnership(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	if d := CanUpdateHomeworkStatus(auth.RoleClient, owner, owner); !d.Allowed {
		t.Error("owner should update own homework status")
	}
	if d := CanUpdateHomeworkStatus(auth.RoleClient, stranger, owner); d.Allowed {
		t.Error("an authenticated stranger must not update another client's homework status")
	}
	if d := CanUpdateHomeworkStatus(auth.RoleOfficeAdmin, stranger, owner); !d.Allowed {
		t.Error("office admin should update any homework status")
	}
}

func TestCanReadPlan(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	if d := CanReadPlan(auth.RoleClient, owner, owner); !d.Allowed { t.Error("owner denied") }
	if d := CanReadPlan(auth.RoleClient, stranger, owner); d.Allowed { t.Error("other client allowed") }
	if d := CanReadPlan(auth.RoleOfficeAdmin, stranger, owner); d.Allowed { t.Error("office admin allowed") }
	if d := CanReadPlan(auth.RoleTherapist, stranger, owner); !d.Allowed { t.Error("therapist denied") }
}

func TestCanReadProgress_TherapistOnly(t *testing.T) {
	if d := CanReadProgress(auth.RoleTherapist); !d.Allowed { t.Error("therapist denied") }
	if d := CanReadProgress(auth.RoleOfficeAdmin); d.Allowed { t.Error("office admin allowed") }
	if d := CanReadProgress(auth.RoleClient); d.Allowed { t.Error("client allowed") }
}

func TestCanReadAccessHistory_SelfOnly(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	if d := CanReadAccessHistory(me, me); !d.Allowed { t.Error("self denied") }
	if d := CanReadAccessHistory(me, other); d.Allowed { t.Error("non-subject allowed") }
}

func TestDenyCarriesReason(t *testing.T) {
	d := Deny("because")
	if d.Allowed { t.Error("deny must not allow") }
	if d.Reason != "because" { t.Errorf("reason lost: %q", d.Reason) }
}
