package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// Posts a synthetic week of league events to a running narrative-api instance.
// One JSON object per line; the ingest handler splits the body by newline.

type event struct {
	Type     string `json:"type"`
	LeagueID string `json:"league_id"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`

	RosterID int     `json:"roster_id,omitempty"`
	TeamName string  `json:"team_name,omitempty"`
	Slot     int     `json:"slot,omitempty"`
	Points   float64 `json:"points,omitempty"`

	PlayerID   string  `json:"player_id,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
	Position   string  `json:"position,omitempty"`
	PlayerPts  float64 `json:"player_points,omitempty"`

	TxID      string   `json:"tx_id,omitempty"`
	TxKind    string   `json:"tx_kind,omitempty"`
	Parties   []int    `json:"parties,omitempty"`
	Assets    []string `json:"assets,omitempty"`
	PickCount int      `json:"pick_count,omitempty"`
	FAABSpend int      `json:"faab_spend,omitempty"`
}

var teamNames = []string{
	"Gridiron Gurus", "Waiver Wire Warriors", "The Benchwarmers", "Hail Mary Maniacs",
	"Touchdown Titans", "Fourth And Long", "The Taco Tuesdays", "Punt Intended",
	"Draft Day Regrets", "Championship Chasers", "The Underdogs", "Red Zone Raiders",
}

var positions = []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "K", "DEF"}

func main() {
	apiURL := flag.String("url", "http://localhost:8086/api/v1/ingest/events", "ingest endpoint")
	season := flag.Int("season", 2025, "season year")
	week := flag.Int("week", 1, "week to seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	// Six head-to-head matchups
	for slot := 1; slot <= 6; slot++ {
		for side := 0; side < 2; side++ {
			rosterID := (slot-1)*2 + side + 1
			team := event{
				Type:     "weekly_score",
				LeagueID: "seed-league-001",
				Season:   *season,
				Week:     *week,
				RosterID: rosterID,
				TeamName: teamNames[rosterID-1],
				Slot:     slot,
				Points:   70 + rng.Float64()*80,
			}
			if err := enc.Encode(team); err != nil {
				log.Fatalf("encode: %v", err)
			}

			// Starting lineup for that roster
			for i, pos := range positions {
				line := event{
					Type:       "player_line",
					LeagueID:   "seed-league-001",
					Season:     *season,
					Week:       *week,
					RosterID:   rosterID,
					PlayerID:   fmt.Sprintf("p-%d-%d", rosterID, i),
					PlayerName: fmt.Sprintf("Player %d-%d", rosterID, i),
					Position:   pos,
					PlayerPts:  rng.Float64() * 25,
				}
				if err := enc.Encode(line); err != nil {
					log.Fatalf("encode: %v", err)
				}
			}
		}
	}

	// One blockbuster trade and one aggressive waiver claim
	trade := event{
		Type:      "transaction",
		LeagueID:  "seed-league-001",
		Season:    *season,
		Week:      *week,
		TxID:      fmt.Sprintf("trade-%d-%d", *week, rng.Intn(1000)),
		TxKind:    "trade",
		Parties:   []int{1, 4},
		Assets:    []string{"p-1-1", "p-1-3", "p-4-2", "p-4-4", "p-4-5", "p-1-6"},
		PickCount: 2,
	}
	waiver := event{
		Type:      "transaction",
		LeagueID:  "seed-league-001",
		Season:    *season,
		Week:      *week,
		TxID:      fmt.Sprintf("waiver-%d-%d", *week, rng.Intn(1000)),
		TxKind:    "waiver",
		Parties:   []int{7},
		Assets:    []string{"p-fa-99"},
		FAABSpend: 42,
	}
	if err := enc.Encode(trade); err != nil {
		log.Fatalf("encode: %v", err)
	}
	if err := enc.Encode(waiver); err != nil {
		log.Fatalf("encode: %v", err)
	}

	req, err := http.NewRequest("POST", *apiURL, &buf)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode == http.StatusAccepted {
		fmt.Println("Seed week accepted")
	} else {
		fmt.Println("Seed week rejected")
	}
}
