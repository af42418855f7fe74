// Package mygol fetches tournament data from the MyGol platform's
// REST API and normalizes it into reconciliation snapshots.
package mygol

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
	"github.com/futbolcanario/futbolbase/internal/usecase"
)

const (
	defaultBaseURL = "https://tusligascanarias.mygol.es/api"
	defaultTimeout = 20 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; FutbolBase/1.0)"

	// statusPlayed is the provider's "finished" match status.
	statusPlayed = 5

	responseLimit = 6 << 20
)

// ErrUnavailable marks transport-level failures so the orchestrator
// can decide to continue with whatever the store already holds.
var ErrUnavailable = crerr.New("mygol unavailable")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Workers    int
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	workers    int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		workers:    workers,
		logger:     logger,
	}
}

type tournamentPayload struct {
	Teams []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"teams"`
	Groups []struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		IDStage int64  `json:"idStage"`
	} `json:"groups"`
	Stages []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"stages"`
}

type matchPayload struct {
	IDGroup       int64  `json:"idGroup"`
	IDHomeTeam    int64  `json:"idHomeTeam"`
	IDVisitorTeam int64  `json:"idVisitorTeam"`
	HomeScore     int    `json:"homeScore"`
	VisitorScore  int    `json:"visitorScore"`
	Status        int    `json:"status"`
	StartTime     string `json:"startTime"`
	IDField       int64  `json:"idField"`
	Field         struct {
		Name string `json:"name"`
	} `json:"field"`
}

type matchdayPayload struct {
	Name    string         `json:"name"`
	IDGroup int64          `json:"idGroup"`
	Matches []matchPayload `json:"matches"`
}

type classificationEntry struct {
	IDTeam           int64 `json:"idTeam"`
	IDGroup          int64 `json:"idGroup"`
	TournamentPoints int   `json:"tournamentPoints"`
	GamesPlayed      int   `json:"gamesPlayed"`
	GamesWon         int   `json:"gamesWon"`
	GamesDraw        int   `json:"gamesDraw"`
	GamesLost        int   `json:"gamesLost"`
}

type classificationPayload struct {
	LeagueClassification []classificationEntry `json:"leagueClassification"`
}

// FetchTournament pulls one tournament and converts it into a
// category snapshot: per-group standings with recomputed goal totals,
// every matchday's fixtures, and the current-jornada label.
func (c *Client) FetchTournament(ctx context.Context, cfg usecase.TournamentSource) (usecase.Snapshot, error) {
	snap := usecase.Snapshot{Category: cfg.Category}

	var tournament tournamentPayload
	if err := c.getJSON(ctx, fmt.Sprintf("%s/tournaments/%d", c.baseURL, cfg.ID), &tournament); err != nil {
		return snap, fmt.Errorf("fetch tournament %d: %w", cfg.ID, err)
	}

	teamNames := make(map[int64]string, len(tournament.Teams))
	for _, t := range tournament.Teams {
		teamNames[t.ID] = titleCase(t.Name)
	}
	stageNames := make(map[int64]string, len(tournament.Stages))
	stageIDs := make([]int64, 0, len(tournament.Stages))
	for _, s := range tournament.Stages {
		stageNames[s.ID] = s.Name
		stageIDs = append(stageIDs, s.ID)
	}

	var days []matchdayPayload
	if err := c.getJSON(ctx, fmt.Sprintf("%s/matches/fortournament/%d", c.baseURL, cfg.ID), &days); err != nil {
		return snap, fmt.Errorf("fetch matchdays for tournament %d: %w", cfg.ID, err)
	}

	classification, err := c.fetchClassifications(ctx, stageIDs)
	if err != nil {
		return snap, fmt.Errorf("fetch classification for tournament %d: %w", cfg.ID, err)
	}

	classByGroup := make(map[int64][]classificationEntry)
	for _, entry := range classification {
		classByGroup[entry.IDGroup] = append(classByGroup[entry.IDGroup], entry)
	}
	daysByGroup := make(map[int64][]matchdayPayload)
	for _, day := range days {
		gid := day.IDGroup
		if len(day.Matches) > 0 {
			gid = day.Matches[0].IDGroup
		}
		daysByGroup[gid] = append(daysByGroup[gid], day)
	}

	singleGroup := len(tournament.Groups) == 1

	for i, g := range tournament.Groups {
		code := fmt.Sprintf("%s%d", cfg.GroupPrefix, i+1)
		stageName := stageNames[g.IDStage]
		groupName := g.Name
		if groupName == "" {
			groupName = fmt.Sprintf("Grupo %d", i+1)
		}
		fullName := groupName
		if stageName != "" {
			fullName = strings.Trim(stageName+" - "+groupName, " -")
		}

		groupDays := daysByGroup[g.ID]
		if len(groupDays) == 0 && singleGroup {
			groupDays = days
		}
		groupClass := classByGroup[g.ID]
		if len(groupClass) == 0 && singleGroup {
			groupClass = classification
		}

		sg := usecase.SnapshotGroup{
			Code:           code,
			Name:           groupName,
			FullName:       fullName,
			Phase:          stageName,
			Island:         cfg.Island,
			CurrentJornada: currentJornada(groupDays),
			Standings:      buildStandings(groupClass, groupDays, teamNames),
			Matches:        buildMatches(groupDays, teamNames),
		}
		snap.Groups = append(snap.Groups, sg)

		c.logger.InfoContext(ctx, "tournament group fetched",
			"tournament", cfg.ID, "code", code, "jornada", sg.CurrentJornada,
			"standings", len(sg.Standings), "matches", len(sg.Matches))
	}

	return snap, nil
}

// fetchClassifications pulls every stage's table through a worker
// pool; stage order is restored afterwards so output stays stable.
func (c *Client) fetchClassifications(ctx context.Context, stageIDs []int64) ([]classificationEntry, error) {
	if len(stageIDs) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([][]classificationEntry, len(stageIDs))
	errs := make([]error, len(stageIDs))
	var wg sync.WaitGroup

	for i, sid := range stageIDs {
		i, sid := i, sid
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = c.fetchStageClassification(ctx, sid)
		}); submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	var out []classificationEntry
	for i := range stageIDs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out = append(out, results[i]...)
	}
	return out, nil
}

// fetchStageClassification tolerates both response shapes the API
// serves: a bare array or an object wrapping leagueClassification.
func (c *Client) fetchStageClassification(ctx context.Context, stageID int64) ([]classificationEntry, error) {
	raw, err := c.get(ctx, fmt.Sprintf("%s/tournaments/stageclassification/%d", c.baseURL, stageID))
	if err != nil {
		return nil, fmt.Errorf("fetch stage classification %d: %w", stageID, err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var entries []classificationEntry
		if err := sonic.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode stage classification %d: %w", stageID, err)
		}
		return entries, nil
	}

	var wrapped classificationPayload
	if err := sonic.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode stage classification %d: %w", stageID, err)
	}
	return wrapped.LeagueClassification, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	raw, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, crerr.Wrapf(ErrUnavailable, "send request: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, responseLimit))
		if err != nil {
			return nil, crerr.Wrapf(ErrUnavailable, "read response body: %v", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return nil, crerr.Wrapf(ErrUnavailable, "provider status=%d", resp.StatusCode)
			}
			return nil, backoff.Permanent(fmt.Errorf("provider status=%d", resp.StatusCode))
		}
		return raw, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	raw, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		c.logger.WarnContext(ctx, "mygol request failed", "url", url, "error", err)
		return nil, err
	}
	return raw, nil
}

// currentJornada is the last matchday with at least one played match,
// or the first matchday when nothing has been played yet.
func currentJornada(days []matchdayPayload) string {
	for i := len(days) - 1; i >= 0; i-- {
		for _, m := range days[i].Matches {
			if m.Status == statusPlayed {
				return days[i].Name
			}
		}
	}
	if len(days) > 0 {
		return days[0].Name
	}
	return ""
}

func buildStandings(entries []classificationEntry, days []matchdayPayload, teamNames map[int64]string) []usecase.SnapshotStanding {
	// The classification endpoint omits goal totals, so they are
	// recomputed from the played matches.
	goalsFor := make(map[int64]int, len(entries))
	goalsAgainst := make(map[int64]int, len(entries))
	for _, entry := range entries {
		goalsFor[entry.IDTeam] = 0
		goalsAgainst[entry.IDTeam] = 0
	}
	for _, day := range days {
		for _, m := range day.Matches {
			if m.Status != statusPlayed {
				continue
			}
			if _, ok := goalsFor[m.IDHomeTeam]; ok {
				goalsFor[m.IDHomeTeam] += m.HomeScore
				goalsAgainst[m.IDHomeTeam] += m.VisitorScore
			}
			if _, ok := goalsFor[m.IDVisitorTeam]; ok {
				goalsFor[m.IDVisitorTeam] += m.VisitorScore
				goalsAgainst[m.IDVisitorTeam] += m.HomeScore
			}
		}
	}

	out := make([]usecase.SnapshotStanding, 0, len(entries))
	for i, entry := range entries {
		gf := goalsFor[entry.IDTeam]
		gc := goalsAgainst[entry.IDTeam]
		out = append(out, usecase.SnapshotStanding{
			Position:     i + 1,
			Team:         teamName(teamNames, entry.IDTeam),
			Points:       entry.TournamentPoints,
			Played:       entry.GamesPlayed,
			Won:          entry.GamesWon,
			Drawn:        entry.GamesDraw,
			Lost:         entry.GamesLost,
			GoalsFor:     gf,
			GoalsAgainst: gc,
			GoalDiff:     gf - gc,
		})
	}
	return out
}

func buildMatches(days []matchdayPayload, teamNames map[int64]string) []usecase.SnapshotMatch {
	var out []usecase.SnapshotMatch
	for _, day := range days {
		matches := append([]matchPayload(nil), day.Matches...)
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].StartTime < matches[j].StartTime })

		for _, m := range matches {
			date, clock := parseStartTime(m.StartTime)
			row := usecase.SnapshotMatch{
				Jornada: day.Name,
				Date:    date,
				Time:    clock,
				Home:    teamName(teamNames, m.IDHomeTeam),
				Away:    teamName(teamNames, m.IDVisitorTeam),
			}
			if m.Status == statusPlayed {
				hs, vs := m.HomeScore, m.VisitorScore
				row.HomeScore = &hs
				row.AwayScore = &vs
			}
			if m.IDField > 0 && m.Field.Name != "" {
				row.Venue = m.Field.Name
			}
			out = append(out, row)
		}
	}
	return out
}

// parseStartTime splits the provider's ISO start time into a sortable
// date and a clock. The provider uses years 0001 and 1901 as "not
// scheduled" sentinels.
func parseStartTime(startTime string) (string, string) {
	if startTime == "" || strings.HasPrefix(startTime, "0001") || strings.HasPrefix(startTime, "1901") {
		return "", ""
	}
	t, err := time.Parse("2006-01-02T15:04:05", trimTimeZone(startTime))
	if err != nil {
		return "", ""
	}
	return t.Format("2006-01-02"), t.Format("15:04")
}

func trimTimeZone(v string) string {
	for _, sep := range []string{"Z", "+"} {
		if idx := strings.Index(v, sep); idx > 0 {
			v = v[:idx]
		}
	}
	if len(v) > 19 {
		v = v[:19]
	}
	return v
}

func teamName(teamNames map[int64]string, id int64) string {
	if name, ok := teamNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Equipo %d", id)
}

// titleCase mirrors the provider names' upper-case form into the
// display form used across the published files.
func titleCase(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for i, f := range fields {
		r := []rune(f)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
			fields[i] = string(r)
		}
	}
	return strings.Join(fields, " ")
}
