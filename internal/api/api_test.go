package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questlog/questlog/internal/app/gamification"
	"github.com/questlog/questlog/internal/app/goals"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ledger := gamification.NewLedger(db)
	engine := gamification.NewAchievementEngine(db, ledger)
	facade := gamification.NewFacade(db, ledger, engine)
	goalSvc := goals.NewService(db, facade)

	srv := NewServer(db, goalSvc, engine)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := getJSON(t, ts.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, body := getJSON(t, ts.URL+"/api/version")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body["version"] == "" {
		t.Error("missing version")
	}
}

func TestCreateUser(t *testing.T) {
	ts := testServer(t)

	resp, body := postJSON(t, ts.URL+"/api/users", map[string]any{"id": "u1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	// Empty ID is a validation error.
	resp, _ = postJSON(t, ts.URL+"/api/users", map[string]any{"id": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty id: status = %d", resp.StatusCode)
	}

	// Duplicate ID is a validation error too.
	resp, _ = postJSON(t, ts.URL+"/api/users", map[string]any{"id": "u1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate id: status = %d", resp.StatusCode)
	}
}

func TestGoalLifecycle(t *testing.T) {
	ts := testServer(t)

	if resp, _ := postJSON(t, ts.URL+"/api/users", map[string]any{"id": "u1"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: %d", resp.StatusCode)
	}

	resp, goal := postJSON(t, ts.URL+"/api/goals", map[string]any{
		"user_id":    "u1",
		"module":     "fitness",
		"title":      "run a 5k",
		"difficulty": "medium",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create goal: %d, %v", resp.StatusCode, goal)
	}
	goalID, _ := goal["id"].(string)
	if goalID == "" {
		t.Fatalf("goal has no id: %v", goal)
	}

	resp, result := postJSON(t, ts.URL+"/api/goals/"+goalID+"/progress", map[string]any{
		"user_id": "u1",
		"note":    "first training session",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("record progress: %d, %v", resp.StatusCode, result)
	}
	if result["xp_awarded"].(float64) <= 0 {
		t.Errorf("expected positive XP, got %v", result["xp_awarded"])
	}

	resp, result = postJSON(t, ts.URL+"/api/goals/"+goalID+"/complete", map[string]any{"user_id": "u1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: %d, %v", resp.StatusCode, result)
	}

	// Completing again is rejected.
	resp, _ = postJSON(t, ts.URL+"/api/goals/"+goalID+"/complete", map[string]any{"user_id": "u1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("double complete: status = %d", resp.StatusCode)
	}

	resp, summary := getJSON(t, ts.URL+"/api/users/u1/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: %d", resp.StatusCode)
	}
	if summary["goals_completed"].(float64) != 1 {
		t.Errorf("goals_completed = %v, want 1", summary["goals_completed"])
	}
	if summary["total_xp"].(float64) <= 0 {
		t.Errorf("total_xp = %v, want > 0", summary["total_xp"])
	}
}

func TestValidationStatusCodes(t *testing.T) {
	ts := testServer(t)

	if resp, _ := postJSON(t, ts.URL+"/api/users", map[string]any{"id": "u1"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: %d", resp.StatusCode)
	}

	// Unknown module → 400
	resp, _ := postJSON(t, ts.URL+"/api/goals", map[string]any{
		"user_id":    "u1",
		"module":     "gardening",
		"title":      "x",
		"difficulty": "easy",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown module: status = %d", resp.StatusCode)
	}

	// Unknown user → 404
	resp, _ = postJSON(t, ts.URL+"/api/goals", map[string]any{
		"user_id":    "ghost",
		"module":     "fitness",
		"title":      "x",
		"difficulty": "easy",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown user: status = %d", resp.StatusCode)
	}

	// Unknown goal → 404
	resp, _ = postJSON(t, ts.URL+"/api/goals/missing/complete", map[string]any{"user_id": "u1"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown goal: status = %d", resp.StatusCode)
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	ts := testServer(t)

	if resp, _ := postJSON(t, ts.URL+"/api/users", map[string]any{"id": "u1"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: %d", resp.StatusCode)
	}
	if resp, _ := postJSON(t, ts.URL+"/api/goals", map[string]any{
		"user_id": "u1", "module": "work", "title": "x", "difficulty": "easy",
	}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create goal: %d", resp.StatusCode)
	}

	resp, body := getJSON(t, ts.URL+"/api/users/u1/achievements")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("achievements: %d", resp.StatusCode)
	}
	list, ok := body["achievements"].([]any)
	if !ok || len(list) == 0 {
		t.Fatalf("expected full catalog in response, got %v", body)
	}
}
