package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

type snapshotProviderMock struct {
	mock.Mock
}

func (m *snapshotProviderMock) FetchTournament(ctx context.Context, src TournamentSource) (Snapshot, error) {
	args := m.Called(ctx, src)
	return args.Get(0).(Snapshot), args.Error(1)
}

func TestScrapeService_Run_FetchesEachSourceOnceUsingMock(t *testing.T) {
	t.Parallel()

	provider := &snapshotProviderMock{}
	service, _ := newTestScrape(t, provider, nil)

	sources := []TournamentSource{
		{ID: 86, Category: "BENJAMIN", GroupPrefix: "A"},
		{ID: 87, Category: "PREBENJAMIN", GroupPrefix: "PG"},
	}

	provider.
		On("FetchTournament", mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }), sources[0]).
		Return(benjaminSnapshot(), nil).
		Once()
	provider.
		On("FetchTournament", mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }), sources[1]).
		Return(Snapshot{Category: "PREBENJAMIN", Groups: []SnapshotGroup{{Code: "PG1"}}}, nil).
		Once()

	report, err := service.Run(t.Context(), testSeason(), sources)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.GroupsUpserted != 2 {
		t.Fatalf("unexpected groups upserted: got=%d want=%d", report.GroupsUpserted, 2)
	}

	provider.AssertExpectations(t)
}
