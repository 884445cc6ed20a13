package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSeason(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_type") != "Race" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `[
			{"session_key": 100, "session_name": "Race", "location": "Spa-Francorchamps", "date_end": %q},
			{"session_key": 200, "session_name": "Race", "location": "Monza", "date_end": %q}
		]`, past, future)
	})
	mux.HandleFunc("/session_result", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("session_key") != "100" {
			http.Error(w, "unexpected session", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `[
			{"position": 2, "driver_number": 4, "dnf": false, "fastest_lap": true},
			{"position": 1, "driver_number": 1, "dnf": false, "fastest_lap": false},
			{"position": null, "driver_number": 11, "dnf": true, "fastest_lap": false}
		]`)
	})
	mux.HandleFunc("/drivers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"driver_number": 1, "full_name": "Max Verstappen"},
			{"driver_number": 4, "full_name": "Lando Norris"},
			{"driver_number": 11, "full_name": "", "broadcast_name": "S PEREZ"}
		]`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewOpenF1Client(srv.URL, srv.Client())
	results, err := client.FetchSeason(context.Background(), 2026)
	if err != nil {
		t.Fatalf("FetchSeason: %v", err)
	}

	// The session that has not ended yet must be excluded.
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	raw := results[0]
	if raw.Location != "Spa-Francorchamps" {
		t.Errorf("location = %q", raw.Location)
	}
	wantOrder := []string{"Max Verstappen", "Lando Norris"}
	if len(raw.Finishers) != len(wantOrder) {
		t.Fatalf("finishers = %v, want %v", raw.Finishers, wantOrder)
	}
	for i, name := range wantOrder {
		if raw.Finishers[i] != name {
			t.Errorf("P%d = %q, want %q", i+1, raw.Finishers[i], name)
		}
	}
	if raw.FastestLap != "Lando Norris" {
		t.Errorf("fastest lap = %q, want Lando Norris", raw.FastestLap)
	}
	if len(raw.DNFs) != 1 || raw.DNFs[0] != "S PEREZ" {
		t.Errorf("dnfs = %v, want [S PEREZ]", raw.DNFs)
	}
}

func TestFetchSeasonSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewOpenF1Client(srv.URL, srv.Client())
	if _, err := client.FetchSeason(context.Background(), 2026); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}
