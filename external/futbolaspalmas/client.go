// Package futbolaspalmas scrapes the Gran Canaria federation results
// pages. Each group has its own fixtures page plus a companion
// mostrar_clasi.php standings page; both are ad-hoc HTML and the
// parsers here tolerate layout noise by simply skipping rows that do
// not match the expected shape.
package futbolaspalmas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
	"github.com/futbolcanario/futbolbase/internal/usecase"
)

// ErrUnavailable marks transport-level failures against the
// federation site. Callers treat it as transient and keep whatever
// data the store already holds.
var ErrUnavailable = crerr.New("futbolaspalmas unavailable")

// ErrBadPage marks pages that came back but did not parse into any
// usable rows.
var ErrBadPage = crerr.New("futbolaspalmas page did not parse")

const (
	defaultTimeout = 20 * time.Second
	defaultDelay   = 350 * time.Millisecond
	responseLimit  = 6 << 20
	userAgent      = "Mozilla/5.0 (compatible; FutbolBase/1.0)"
	standingsPath  = "/mostrar_clasi.php"
)

var jornadaHeaderPattern = regexp.MustCompile(`(?i)JORNADA\s+(\d+)`)

type ClientConfig struct {
	HTTPClient *http.Client
	// Delay is the pause before each page fetch, keeping the scrape
	// polite to the federation's shared hosting.
	Delay  time.Duration
	Logger *logging.Logger
}

type Client struct {
	httpClient *http.Client
	delay      time.Duration
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Client{httpClient: httpClient, delay: delay, logger: logger}
}

// FetchGroupPage scrapes one group's fixtures page and its standings
// page. The returned update carries the last jornada section found on
// the page, which the site always renders as the current one.
func (c *Client) FetchGroupPage(ctx context.Context, pageURL string) (usecase.GroupPageUpdate, error) {
	var update usecase.GroupPageUpdate

	doc, err := c.get(ctx, pageURL)
	if err != nil {
		return update, err
	}

	jornada, matches := parseFixtures(doc)
	if jornada == "" {
		return update, crerr.Wrapf(ErrBadPage, "no jornada sections in %s", pageURL)
	}
	update.Jornada = jornada
	for i := range matches {
		matches[i].Jornada = jornada
	}
	update.Matches = matches

	standingsDoc, err := c.get(ctx, strings.TrimRight(pageURL, "/")+standingsPath)
	if err != nil {
		// Fixtures alone are still worth applying.
		c.logger.WarnContext(ctx, "standings page fetch failed", "url", pageURL, "error", err)
		return update, nil
	}
	standings, err := parseStandings(standingsDoc)
	if err != nil {
		c.logger.WarnContext(ctx, "standings page did not parse", "url", pageURL, "error", err)
		return update, nil
	}
	update.Standings = standings

	return update, nil
}

func (c *Client) get(ctx context.Context, url string) (*goquery.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.delay):
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "build request %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(ErrUnavailable, "get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, responseLimit))
		return nil, crerr.Wrapf(ErrUnavailable, "get %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, responseLimit))
	if err != nil {
		return nil, crerr.Wrapf(ErrBadPage, "parse %s: %v", url, err)
	}
	return doc, nil
}

// parseFixtures walks the page's table rows. A one-cell row naming
// "JORNADA N" opens a section; seven-cell rows inside it are matches
// laid out as date, time, home, home score, away score, away, venue.
// Only the last section's matches are returned.
func parseFixtures(doc *goquery.Document) (string, []usecase.SnapshotMatch) {
	var (
		current string
		matches []usecase.SnapshotMatch
	)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")

		if cells.Length() == 1 {
			if m := jornadaHeaderPattern.FindStringSubmatch(cellText(cells, 0)); m != nil {
				current = "Jornada " + m[1]
				matches = matches[:0]
			}
			return
		}
		if current == "" || cells.Length() != 7 {
			return
		}

		home := cellText(cells, 2)
		away := cellText(cells, 5)
		if home == "" || away == "" {
			return
		}

		match := usecase.SnapshotMatch{
			Date:  normalizeDate(cellText(cells, 0)),
			Time:  normalizeTime(cellText(cells, 1)),
			Home:  home,
			Away:  away,
			Venue: cellText(cells, 6),
		}
		hs, herr := strconv.Atoi(cellText(cells, 3))
		as, aerr := strconv.Atoi(cellText(cells, 4))
		if herr == nil && aerr == nil {
			match.HomeScore = &hs
			match.AwayScore = &as
		}
		matches = append(matches, match)
	})

	return current, matches
}

// parseStandings reads the mostrar_clasi.php layout: team names carry
// fw-bolder, points sit in fw-bold divs with a bg- colour class, and
// the seven per-team stat cells (played, won, drawn, lost, goals for,
// goals against, diff) carry border-start. The points list fixes the
// team count; short stat lists abort the parse.
func parseStandings(doc *goquery.Document) ([]usecase.SnapshotStanding, error) {
	var names []string
	doc.Find(".fw-bolder").Each(func(_ int, s *goquery.Selection) {
		if name := strings.TrimSpace(s.Text()); name != "" {
			names = append(names, name)
		}
	})

	var points []int
	doc.Find(".fw-bold").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if !strings.Contains(class, "bg-") {
			return
		}
		if v, err := strconv.Atoi(strings.TrimSpace(s.Text())); err == nil {
			points = append(points, v)
		}
	})

	var stats []int
	doc.Find("[class*=border-start]").Each(func(_ int, s *goquery.Selection) {
		if v, err := strconv.Atoi(strings.TrimSpace(s.Text())); err == nil {
			stats = append(stats, v)
		}
	})

	n := len(points)
	if n == 0 || len(names) < n || len(stats) < n*7 {
		return nil, crerr.Wrapf(ErrBadPage,
			"standings shape names=%d points=%d stats=%d", len(names), n, len(stats))
	}

	rows := make([]usecase.SnapshotStanding, 0, n)
	for i := 0; i < n; i++ {
		s := stats[i*7 : i*7+7]
		rows = append(rows, usecase.SnapshotStanding{
			Position:     i + 1,
			Team:         names[i],
			Points:       points[i],
			Played:       s[0],
			Won:          s[1],
			Drawn:        s[2],
			Lost:         s[3],
			GoalsFor:     s[4],
			GoalsAgainst: s[5],
			GoalDiff:     s[6],
		})
	}
	return rows, nil
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

// normalizeDate turns the site's "28-11-2025" into the short "28/11"
// display form the datasets use.
func normalizeDate(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '/' {
			return r
		}
		return -1
	}, raw)
	parts := strings.FieldsFunc(cleaned, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) >= 2 {
		return fmt.Sprintf("%s/%s", parts[0], parts[1])
	}
	return strings.TrimSpace(raw)
}

// normalizeTime strips the trailing "h" the site appends ("17:00h").
func normalizeTime(raw string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "h"))
}
