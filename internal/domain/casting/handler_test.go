package casting

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tnwnrrl/schedule/internal/domain/actor"
)

func TestAssignHandlerBlockedActorReturns400(t *testing.T) {
	fx := newCastingFixture()
	fx.un.blocked[fx.femaleLead.ID.String()+"/"+fx.slot.ID.String()] = true
	h := NewHandler(fx.svc)

	body, _ := json.Marshal(AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/castings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST, got %q", out.Error.Code)
	}
}

func TestAssignHandlerRejectsUnknownRoleType(t *testing.T) {
	fx := newCastingFixture()
	h := NewHandler(fx.svc)

	body, _ := json.Marshal(AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          "UNDERSTUDY",
	})
	req := httptest.NewRequest(http.MethodPost, "/castings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAssignHandlerUnassignBody(t *testing.T) {
	fx := newCastingFixture()
	h := NewHandler(fx.svc)

	if _, err := fx.svc.Assign(context.Background(), &AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
		ActorID:           &fx.femaleLead.ID,
	}); err != nil {
		t.Fatalf("seed assign: %v", err)
	}

	body, _ := json.Marshal(AssignRequest{
		PerformanceDateID: fx.slot.ID,
		RoleType:          string(actor.RoleTypeFemaleLead),
	})
	req := httptest.NewRequest(http.MethodPost, "/castings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Data struct {
			Unassigned bool `json:"unassigned"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Data.Unassigned {
		t.Fatalf("expected unassigned flag, body=%s", rr.Body.String())
	}
}
