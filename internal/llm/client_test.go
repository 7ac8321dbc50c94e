package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dynastywire/narrative-api/internal/logic"
)

func TestProposePicks_RoundTrip(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`[{"team1": "Alphas", "team2": "Betas", "pick": "Alphas", "confidence": "high", "reason": "form"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zap.NewNop().Sugar())
	matchups := []logic.UpcomingMatchup{{Team1: "Alphas", Team2: "Betas"}}

	picks, err := c.ProposePicks(context.Background(), "analyst", "week context", matchups)
	if err != nil {
		t.Fatalf("ProposePicks: %v", err)
	}
	if len(picks) != 1 || picks[0].Pick != "Alphas" {
		t.Fatalf("picks = %+v", picks)
	}

	if got.Persona != "analyst" {
		t.Errorf("request persona = %q", got.Persona)
	}
	if got.SectionType != "weekly_picks" {
		t.Errorf("request section = %q", got.SectionType)
	}
	if got.Context != "week context" {
		t.Errorf("request context = %q", got.Context)
	}
	if got.MaxTokens != 120 {
		t.Errorf("max tokens = %d, want 120 for one matchup", got.MaxTokens)
	}
}

func TestProposePicks_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop().Sugar())
	if _, err := c.ProposePicks(context.Background(), "analyst", "", nil); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestProposePicks_UnreachableCollaborator(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop().Sugar())
	if _, err := c.ProposePicks(context.Background(), "entertainer", "", nil); err == nil {
		t.Fatal("expected error for unreachable collaborator")
	}
}

func TestProposePicks_UnparseableReplyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("I am feeling chatty today, no picks from me."))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop().Sugar())
	picks, err := c.ProposePicks(context.Background(), "entertainer", "", nil)
	if err != nil {
		t.Fatalf("ProposePicks: %v", err)
	}
	if len(picks) != 0 {
		t.Errorf("picks = %d, want 0", len(picks))
	}
}
