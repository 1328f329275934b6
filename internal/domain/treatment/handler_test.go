package treatment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
)

type recordingAuditRepo struct{ entries []*audit.Entry }

func (m *recordingAuditRepo) Record(_ context.Context, e *audit.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}
func (m *recordingAuditRepo) List(_ context.Context, _ map[string]string, _, _ int) ([]*audit.Entry, int, error) {
	return m.entries, len(m.entries), nil
}
func (m *recordingAuditRepo) ListByTargetUser(_ context.Context, _ uuid.UUID, _, _ int) ([]*audit.Entry, int, error) {
	return nil, 0, nil
}

// emptySource satisfies the chain resolver; therapist reads never consult it.
type emptySource struct{}

func (emptySource) PlanIDForClient(context.Context, uuid.UUID) (uuid.UUID, error) {
	return uuid.Nil, policy.ErrNoPlan
}
func (emptySource) GoalIDsForPlan(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (emptySource) ObjectiveIDsForGoal(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func newTestHandler(sink *recordingAuditRepo) (*Handler, *mockPlanRepo, *mockGoalRepo) {
	plans := newMockPlanRepo()
	goals := newMockGoalRepo()
	svc := NewService(plans, goals, newMockObjectiveRepo(), &mockProgressRepo{})
	h := NewHandler(svc, policy.NewChainResolver(emptySource{}), audit.NewService(sink, zerolog.Nop()), zerolog.Nop())
	return h, plans, goals
}

func getGoalAs(t *testing.T, h *Handler, actorID uuid.UUID, role string, goalID uuid.UUID) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/goals/"+goalID.String(), nil)
	ctx := auth.WithPrincipal(req.Context(), actorID.String(), role, "sess-1")
	req = req.WithContext(ctx)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(goalID.String())
	return h.GetGoal(c)
}

func TestGetGoal_AuditTaggedWithOwningClient(t *testing.T) {
	sink := &recordingAuditRepo{}
	h, plans, goals := newTestHandler(sink)

	clientID := uuid.New()
	plan := &Plan{ClientID: clientID, Title: "anxiety plan"}
	if err := plans.Create(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	goal := &Goal{PlanID: plan.ID, Description: "reduce avoidance", Status: GoalInProgress}
	if err := goals.Create(context.Background(), goal); err != nil {
		t.Fatal(err)
	}

	therapistID := uuid.New()
	if err := getGoalAs(t, h, therapistID, auth.RoleTherapist, goal.ID); err != nil {
		t.Fatalf("GetGoal: %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Action != audit.ActionView || entry.ResourceType != "treatment_goal" {
		t.Errorf("unexpected entry %s/%s", entry.Action, entry.ResourceType)
	}
	if entry.TargetUserID == nil || *entry.TargetUserID != clientID {
		t.Errorf("expected entry tagged with client %s, got %v", clientID, entry.TargetUserID)
	}
}

func TestGetGoal_AuditWrittenWhenPlanRemovedMidRequest(t *testing.T) {
	sink := &recordingAuditRepo{}
	h, plans, goals := newTestHandler(sink)

	clientID := uuid.New()
	plan := &Plan{ClientID: clientID, Title: "anxiety plan"}
	if err := plans.Create(context.Background(), plan); err != nil {
		t.Fatal(err)
	}
	goal := &Goal{PlanID: plan.ID, Description: "reduce avoidance", Status: GoalInProgress}
	if err := goals.Create(context.Background(), goal); err != nil {
		t.Fatal(err)
	}

	// Plan vanishes between authorization and the audit write.
	if err := plans.Delete(context.Background(), plan.ID); err != nil {
		t.Fatal(err)
	}

	therapistID := uuid.New()
	if err := getGoalAs(t, h, therapistID, auth.RoleTherapist, goal.ID); err != nil {
		t.Fatalf("GetGoal: %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected the read to be audited despite the missing plan, got %d entries", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Action != audit.ActionView || entry.ResourceType != "treatment_goal" {
		t.Errorf("unexpected entry %s/%s", entry.Action, entry.ResourceType)
	}
	if entry.TargetUserID != nil {
		t.Errorf("expected no target when the owning plan is gone, got %v", entry.TargetUserID)
	}
	if entry.ActorID != therapistID {
		t.Errorf("entry actor = %s, want %s", entry.ActorID, therapistID)
	}
}
