package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWorkspaceIssuesSessionID(t *testing.T) {
	mgr := newTestManager(t)
	var seen string
	handler := Workspace(mgr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ws := WorkspaceFromContext(r.Context()); ws != nil {
			seen = ws.ID
		}
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	issued := resp.Header().Get(SessionHeader)
	if issued == "" || issued != seen {
		t.Fatalf("expected issued id %q to match workspace %q", issued, seen)
	}
	if mgr.Len() != 1 {
		t.Fatalf("expected one live workspace, got %d", mgr.Len())
	}
}

func TestWorkspaceReusesSessionID(t *testing.T) {
	mgr := newTestManager(t)
	handler := Workspace(mgr, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, "tab-12345678")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if got := resp.Header().Get(SessionHeader); got != "tab-12345678" {
			t.Fatalf("expected echoed id, got %q", got)
		}
	}
	if mgr.Len() != 1 {
		t.Fatalf("expected one live workspace, got %d", mgr.Len())
	}
}

func TestWorkspaceRejectsMalformedID(t *testing.T) {
	mgr := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "bad id!")
	resp := httptest.NewRecorder()
	Workspace(mgr, nil)(okHandler()).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
