package app

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/futbolcanario/futbolbase/external/futbolaspalmas"
	"github.com/futbolcanario/futbolbase/external/mygol"
	"github.com/futbolcanario/futbolbase/internal/config"
	"github.com/futbolcanario/futbolbase/internal/domain/category"
	"github.com/futbolcanario/futbolbase/internal/domain/season"
	"github.com/futbolcanario/futbolbase/internal/infrastructure/repository/postgres"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
	"github.com/futbolcanario/futbolbase/internal/usecase"
)

// groupPrefixes fixes the short code prefix each category's scraped
// groups are keyed under.
var groupPrefixes = map[string]string{
	category.Benjamin:    "BEN",
	category.Prebenjamin: "PRE",
}

// App wires configuration, the database and every service the CLI
// commands run against.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Reconcile  *usecase.ReconcileService
	Projection *usecase.ProjectionService
	Import     *usecase.ImportService
	Scrape     *usecase.ScrapeService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	seasonRepo := postgres.NewSeasonRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	scorerRepo := postgres.NewScorerRepository(db)

	reconcile := usecase.NewReconcileService(
		seasonRepo, categoryRepo, teamRepo, groupRepo, standingRepo, matchRepo, scorerRepo, logger)
	projection := usecase.NewProjectionService(
		groupRepo, teamRepo, standingRepo, matchRepo, scorerRepo, logger)
	importSvc := usecase.NewImportService(reconcile, logger)

	mygolClient := mygol.NewClient(mygol.ClientConfig{
		BaseURL:    cfg.MyGolBaseURL,
		Timeout:    cfg.MyGolTimeout,
		MaxRetries: cfg.MyGolMaxRetries,
		Workers:    cfg.ScrapeWorkers,
		Logger:     logger,
	})

	var pages usecase.GroupPageProvider
	if cfg.PalmasEnabled {
		pages = futbolaspalmas.NewClient(futbolaspalmas.ClientConfig{
			HTTPClient: &http.Client{
				Timeout:   cfg.PalmasTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			Delay:  cfg.PalmasDelay,
			Logger: logger,
		})
	}

	scrape := usecase.NewScrapeService(mygolClient, pages, reconcile, groupRepo, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Reconcile:  reconcile,
		Projection: projection,
		Import:     importSvc,
		Scrape:     scrape,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// Season builds the configured season row.
func (a *App) Season() season.Season {
	return season.Season{
		Name:      a.Config.SeasonName,
		StartYear: a.Config.SeasonStartYear,
		EndYear:   a.Config.SeasonEndYear,
		IsCurrent: true,
	}
}

// TournamentSources expands the configured category-to-tournament map
// into scrape sources, in display category order.
func (a *App) TournamentSources() []usecase.TournamentSource {
	sources := make([]usecase.TournamentSource, 0, len(a.Config.MyGolTournamentByCategory))
	for _, name := range category.Names() {
		id, ok := a.Config.MyGolTournamentByCategory[name]
		if !ok {
			continue
		}
		sources = append(sources, usecase.TournamentSource{
			ID:          int(id),
			Category:    name,
			GroupPrefix: groupPrefixes[name],
			Island:      a.Config.MyGolIsland,
		})
	}
	return sources
}
