package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/ricochet/api"
	"github.com/wricardo/mcp-training/ricochet/game/config"
	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
	"github.com/wricardo/mcp-training/ricochet/game/session"
)

func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	server := httptest.NewServer(api.NewServer(service.NewGameService(session.NewManager(), configs), nil))
	t.Cleanup(server.Close)
	return server
}

func TestRun_Draw(t *testing.T) {
	server := startAPI(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	info, err := client.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	strategy, err := NewStrategy("draw", info)
	if err != nil {
		t.Fatalf("Failed to create strategy: %v", err)
	}

	report, err := run(ctx, client, strategy, 0)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if report.Targets != len(info.Goals) {
		t.Errorf("Expected %d targets, got %d", len(info.Goals), report.Targets)
	}
	if report.Solved+report.Unsolvable != report.Targets {
		t.Errorf("Solved %d + unsolvable %d should equal targets %d", report.Solved, report.Unsolvable, report.Targets)
	}
	if report.Unsolvable == 0 {
		t.Error("Expected some unsolvable targets on the default board")
	}
	if len(report.Failures) != 0 {
		t.Errorf("Expected every solution to verify, got %v", report.Failures)
	}
}

func TestRun_Systematic(t *testing.T) {
	server := startAPI(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	info, err := client.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	strategy, _ := NewStrategy("systematic", info)

	report, err := run(ctx, client, strategy, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Targets != 3 {
		t.Errorf("Expected run to stop after 3 targets, got %d", report.Targets)
	}

	state, err := client.GetSession(ctx)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if state.SolveCount != 3 {
		t.Errorf("Expected 3 solves recorded, got %d", state.SolveCount)
	}
	if state.Target == nil || state.Target.Goal != info.Goals[2].Goal {
		t.Errorf("Expected current target %s, got %+v", info.Goals[2].Goal, state.Target)
	}
}

func TestNewStrategy_Unknown(t *testing.T) {
	if _, err := NewStrategy("random-walk", &service.SessionInfo{}); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestVerify(t *testing.T) {
	server := startAPI(t)
	client := NewClient(server.URL)
	ctx := context.Background()
	if _, err := client.CreateSession(ctx, ""); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	good := &service.SolveResult{
		Solved: true,
		Target: service.TargetInfo{Name: "green circle", Location: engine.Coordinate{X: 12, Y: 3}},
		Moves: []service.MoveInfo{
			{Idx: 1, Pawn: "green", Direction: "up", From: engine.Coordinate{X: 12, Y: 10}, To: engine.Coordinate{X: 12, Y: 3}},
		},
	}
	if err := verify(ctx, client, good); err != nil {
		t.Errorf("Expected valid solution, got %v", err)
	}

	wrongEnd := *good
	wrongEnd.Target.Location = engine.Coordinate{X: 0, Y: 0}
	if err := verify(ctx, client, &wrongEnd); err == nil || !strings.Contains(err.Error(), "last move") {
		t.Errorf("Expected last move error, got %v", err)
	}

	wrongSlide := *good
	wrongSlide.Moves = []service.MoveInfo{
		{Idx: 1, Pawn: "green", Direction: "left", From: engine.Coordinate{X: 12, Y: 10}, To: engine.Coordinate{X: 12, Y: 3}},
	}
	if err := verify(ctx, client, &wrongSlide); err == nil || !strings.Contains(err.Error(), "resolves to") {
		t.Errorf("Expected resolve mismatch, got %v", err)
	}

	broken := *good
	broken.Moves = []service.MoveInfo{
		{Idx: 1, Pawn: "green", Direction: "up", From: engine.Coordinate{X: 12, Y: 10}, To: engine.Coordinate{X: 12, Y: 3}},
		{Idx: 2, Pawn: "green", Direction: "up", From: engine.Coordinate{X: 5, Y: 5}, To: engine.Coordinate{X: 12, Y: 3}},
	}
	if err := verify(ctx, client, &broken); err == nil || !strings.Contains(err.Error(), "starts at") {
		t.Errorf("Expected chain error, got %v", err)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "no targets left"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.NextTarget(context.Background())
	if !IsNoTargetsLeft(err) {
		t.Errorf("Expected no-targets-left error, got %v", err)
	}

	_, err = client.Solve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "API error 409") {
		t.Errorf("Expected API error, got %v", err)
	}
}

func TestBruteforce_ResumesSavedSession(t *testing.T) {
	t.Chdir(t.TempDir())
	server := startAPI(t)
	ctx := context.Background()

	if err := bruteforce(ctx, server.URL, "", "", "draw", 2); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	saved, err := os.ReadFile(sessionFile)
	if err != nil {
		t.Fatalf("Expected session file: %v", err)
	}

	if err := bruteforce(ctx, server.URL, "", "", "draw", 0); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	client := NewClient(server.URL)
	info, err := client.Resume(ctx, strings.TrimSpace(string(saved)))
	if err != nil {
		t.Fatalf("Failed to resume saved session: %v", err)
	}
	if info.TargetsUsed != len(info.Goals) {
		t.Errorf("Expected all %d targets drawn across both runs, got %d", len(info.Goals), info.TargetsUsed)
	}
}

func TestBruteforce_ResumeFallsBackToNewSession(t *testing.T) {
	t.Chdir(t.TempDir())
	server := startAPI(t)

	if err := bruteforce(context.Background(), server.URL, "", "ffff", "systematic", 1); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	saved, err := os.ReadFile(sessionFile)
	if err != nil {
		t.Fatalf("Expected session file: %v", err)
	}
	if strings.TrimSpace(string(saved)) == "ffff" {
		t.Error("Expected a new session instead of the unknown one")
	}
}
