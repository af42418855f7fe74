package mygol

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
	"github.com/futbolcanario/futbolbase/internal/usecase"
)

func TestTitleCase(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"C.D. SAN JOSE", "C.d. San Jose"},
		{"AGUILAS   DEL  SUR", "Aguilas Del Sur"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := titleCase(tc.in); got != tc.want {
			t.Fatalf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseStartTime(t *testing.T) {
	t.Parallel()

	date, clock := parseStartTime("2025-11-21T18:00:00")
	if date != "2025-11-21" || clock != "18:00" {
		t.Fatalf("got %q %q", date, clock)
	}

	date, clock = parseStartTime("2025-11-21T18:00:00.123+01:00")
	if date != "2025-11-21" || clock != "18:00" {
		t.Fatalf("timezone suffix not stripped: %q %q", date, clock)
	}

	// Sentinel years mean "not scheduled".
	for _, raw := range []string{"", "0001-01-01T00:00:00", "1901-01-01T00:00:00", "garbage"} {
		if date, clock := parseStartTime(raw); date != "" || clock != "" {
			t.Fatalf("parseStartTime(%q) = %q %q, want empty", raw, date, clock)
		}
	}
}

func TestCurrentJornada(t *testing.T) {
	t.Parallel()

	days := []matchdayPayload{
		{Name: "Jornada 1", Matches: []matchPayload{{Status: statusPlayed}}},
		{Name: "Jornada 2", Matches: []matchPayload{{Status: statusPlayed}, {Status: 1}}},
		{Name: "Jornada 3", Matches: []matchPayload{{Status: 1}}},
	}
	if got := currentJornada(days); got != "Jornada 2" {
		t.Fatalf("expected last played matchday, got %q", got)
	}

	unplayed := []matchdayPayload{
		{Name: "Jornada 1", Matches: []matchPayload{{Status: 1}}},
		{Name: "Jornada 2"},
	}
	if got := currentJornada(unplayed); got != "Jornada 1" {
		t.Fatalf("expected first matchday when nothing played, got %q", got)
	}

	if got := currentJornada(nil); got != "" {
		t.Fatalf("expected empty for no matchdays, got %q", got)
	}
}

func TestBuildStandingsRecomputesGoals(t *testing.T) {
	t.Parallel()

	names := map[int64]string{10: "San Jose", 20: "Aguilas"}
	entries := []classificationEntry{
		{IDTeam: 10, TournamentPoints: 6, GamesPlayed: 2, GamesWon: 2},
		{IDTeam: 20, TournamentPoints: 0, GamesPlayed: 2, GamesLost: 2},
	}
	days := []matchdayPayload{
		{Name: "Jornada 1", Matches: []matchPayload{
			{IDHomeTeam: 10, IDVisitorTeam: 20, HomeScore: 3, VisitorScore: 1, Status: statusPlayed},
		}},
		{Name: "Jornada 2", Matches: []matchPayload{
			{IDHomeTeam: 20, IDVisitorTeam: 10, HomeScore: 0, VisitorScore: 2, Status: statusPlayed},
			// Pending matches never count toward totals.
			{IDHomeTeam: 10, IDVisitorTeam: 20, HomeScore: 9, VisitorScore: 9, Status: 1},
		}},
	}

	rows := buildStandings(entries, days, names)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Team != "San Jose" || first.Position != 1 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.GoalsFor != 5 || first.GoalsAgainst != 1 || first.GoalDiff != 4 {
		t.Fatalf("goal totals wrong: %+v", first)
	}
	second := rows[1]
	if second.GoalsFor != 1 || second.GoalsAgainst != 5 || second.GoalDiff != -4 {
		t.Fatalf("goal totals wrong: %+v", second)
	}
}

func TestBuildMatchesScoresAndVenue(t *testing.T) {
	t.Parallel()

	names := map[int64]string{10: "San Jose", 20: "Aguilas"}
	days := []matchdayPayload{{Name: "Jornada 1", Matches: []matchPayload{
		{
			IDHomeTeam: 10, IDVisitorTeam: 20,
			HomeScore: 3, VisitorScore: 1, Status: statusPlayed,
			StartTime: "2025-11-21T18:00:00",
			IDField:   7, Field: struct {
				Name string `json:"name"`
			}{Name: "Campo Anexo"},
		},
		{
			IDHomeTeam: 20, IDVisitorTeam: 10, Status: 1,
			StartTime: "2025-11-28T17:00:00",
		},
	}}}

	rows := buildMatches(days, names)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	played := rows[0]
	if played.Home != "San Jose" || played.Away != "Aguilas" {
		t.Fatalf("unexpected teams: %+v", played)
	}
	if played.HomeScore == nil || *played.HomeScore != 3 || *played.AwayScore != 1 {
		t.Fatalf("played match must carry scores: %+v", played)
	}
	if played.Venue != "Campo Anexo" || played.Date != "2025-11-21" || played.Time != "18:00" {
		t.Fatalf("unexpected fields: %+v", played)
	}

	pending := rows[1]
	if pending.HomeScore != nil || pending.AwayScore != nil {
		t.Fatalf("pending match must not carry scores: %+v", pending)
	}
	if pending.Venue != "" {
		t.Fatalf("venue requires a field id: %+v", pending)
	}
}

func TestFetchTournamentBuildsSnapshot(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/tournaments/86", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"teams":[{"id":10,"name":"C.D. SAN JOSE"},{"id":20,"name":"AGUILAS"}],
			"groups":[{"id":100,"name":"Grupo 1","idStage":200}],
			"stages":[{"id":200,"name":"Segunda Fase"}]
		}`))
	})
	mux.HandleFunc("/matches/fortournament/86", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"Jornada 1","idGroup":100,"matches":[
				{"idGroup":100,"idHomeTeam":10,"idVisitorTeam":20,"homeScore":2,"visitorScore":1,"status":5,"startTime":"2025-11-21T18:00:00"}
			]},
			{"name":"Jornada 2","idGroup":100,"matches":[
				{"idGroup":100,"idHomeTeam":20,"idVisitorTeam":10,"status":1,"startTime":"2025-11-28T17:00:00"}
			]}
		]`))
	})
	mux.HandleFunc("/tournaments/stageclassification/200", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"leagueClassification":[
			{"idTeam":10,"idGroup":100,"tournamentPoints":3,"gamesPlayed":1,"gamesWon":1},
			{"idTeam":20,"idGroup":100,"tournamentPoints":0,"gamesPlayed":1,"gamesLost":1}
		]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	snap, err := client.FetchTournament(t.Context(), usecase.TournamentSource{
		ID: 86, Category: "BENJAMIN", GroupPrefix: "BEN", Island: "grancanaria",
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if snap.Category != "BENJAMIN" || len(snap.Groups) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	g := snap.Groups[0]
	if g.Code != "BEN1" || g.FullName != "Segunda Fase - Grupo 1" || g.Phase != "Segunda Fase" {
		t.Fatalf("unexpected group metadata: %+v", g)
	}
	if g.Island != "grancanaria" {
		t.Fatalf("island not carried: %+v", g)
	}
	if g.CurrentJornada != "Jornada 1" {
		t.Fatalf("expected last played matchday, got %q", g.CurrentJornada)
	}
	if len(g.Standings) != 2 || g.Standings[0].Team != "C.d. San Jose" {
		t.Fatalf("unexpected standings: %+v", g.Standings)
	}
	if g.Standings[0].GoalsFor != 2 || g.Standings[0].GoalsAgainst != 1 {
		t.Fatalf("goal totals not recomputed: %+v", g.Standings[0])
	}
	if len(g.Matches) != 2 {
		t.Fatalf("expected every matchday's fixtures: %+v", g.Matches)
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	if _, err := client.get(t.Context(), server.URL+"/tournaments/1"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	if _, err := client.get(t.Context(), server.URL+"/tournaments/1"); err == nil {
		t.Fatal("expected error for 404")
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("4xx must not retry, got %d attempts", got)
	}
}

func TestGetMarksTransportFailuresUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
	})

	_, err := client.get(t.Context(), server.URL+"/tournaments/1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
