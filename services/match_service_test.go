package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padelhub/live-scoring/models"
	"github.com/padelhub/live-scoring/ws"
)

type matchFixture struct {
	service   MatchService
	tx        *fakeTxRunner
	matchRepo *fakeMatchRepo
	statsRepo *fakeStatsRepo
	hub       *ws.Hub
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &matchFixture{
		tx:        &fakeTxRunner{},
		matchRepo: &fakeMatchRepo{},
		statsRepo: &fakeStatsRepo{},
		hub:       ws.NewHub(logger),
	}
	f.service = NewMatchService(f.tx, f.matchRepo, &fakeSetRepo{}, &fakePointRepo{}, f.statsRepo, f.hub, logger)
	return f
}

func validCreateInput() CreateMatchInput {
	return CreateMatchInput{
		HomeTeamName: "Galán/Lebrón",
		AwayTeamName: "Coello/Tapia",
		Player1ID:    1,
		Player2ID:    2,
		Player3ID:    3,
		Player4ID:    4,
		GoldenPoint:  true,
	}
}

func TestCreateMatchSeedsSnapshotAndStats(t *testing.T) {
	f := newMatchFixture(t)

	match, err := f.service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NotZero(t, match.ID)
	require.Equal(t, models.MatchStatusScheduled, match.Status)

	snap := match.Snapshot
	require.Equal(t, "0", snap.SideAScore)
	require.Equal(t, "0", snap.SideBScore)
	require.Equal(t, 1, snap.CurrentSetIdx)
	require.True(t, snap.HasGoldPoint)
	require.Nil(t, snap.WinnerSide)

	require.ElementsMatch(t, []int{1, 2, 3, 4}, f.statsRepo.seeded)
	require.Equal(t, 1, f.tx.calls)
}

func TestCreateMatchRequiresTeamNames(t *testing.T) {
	f := newMatchFixture(t)

	input := validCreateInput()
	input.AwayTeamName = ""
	_, err := f.service.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrMatchTeamNamesRequired)
	require.Zero(t, f.tx.calls)
}

func TestCreateMatchRejectsDuplicatePlayers(t *testing.T) {
	f := newMatchFixture(t)

	input := validCreateInput()
	input.Player4ID = input.Player1ID
	_, err := f.service.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrMatchPlayersInvalid)
}

func TestCreateMatchRejectsInvertedDates(t *testing.T) {
	f := newMatchFixture(t)

	start := time.Now().Add(time.Hour)
	end := start.Add(-time.Minute)
	input := validCreateInput()
	input.StartTime = &start
	input.EndTime = &end
	_, err := f.service.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrMatchInvalidDateRange)
}

func TestStatusForStart(t *testing.T) {
	now := time.Now()
	farFuture := now.Add(2 * time.Hour)
	soon := now.Add(10 * time.Minute)
	past := now.Add(-time.Minute)

	require.Equal(t, models.MatchStatusScheduled, statusForStart(nil, now))
	require.Equal(t, models.MatchStatusScheduled, statusForStart(&farFuture, now))
	require.Equal(t, models.MatchStatusWarmup, statusForStart(&soon, now))
	require.Equal(t, models.MatchStatusLive, statusForStart(&past, now))
}

func TestAutoUpdateAdvancesScheduledMatch(t *testing.T) {
	f := newMatchFixture(t)

	start := time.Now().Add(5 * time.Minute)
	input := validCreateInput()
	input.StartTime = &start
	match, err := f.service.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, models.MatchStatusWarmup, match.Status)

	// Move the stored match back to scheduled to simulate a stale row.
	f.matchRepo.mu.Lock()
	f.matchRepo.match.Status = models.MatchStatusScheduled
	f.matchRepo.mu.Unlock()

	require.NoError(t, f.service.AutoUpdateMatchStatusesByTime(context.Background()))

	f.matchRepo.mu.Lock()
	defer f.matchRepo.mu.Unlock()
	require.Equal(t, models.MatchStatusWarmup, f.matchRepo.match.Status)
}

func TestGetSummaryDerivesDuration(t *testing.T) {
	f := newMatchFixture(t)

	start := time.Now().Add(-30 * time.Minute)
	input := validCreateInput()
	input.StartTime = &start
	match, err := f.service.Create(context.Background(), input)
	require.NoError(t, err)

	summary, err := f.service.GetSummary(context.Background(), match.ID)
	require.NoError(t, err)
	require.Equal(t, "0-0", summary.Games)
	require.Equal(t, "0-0", summary.Points)
	require.GreaterOrEqual(t, summary.DurationSeconds, 29*60)
}

func TestGetPlayerStatsMapsNotFound(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.GetPlayerStats(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrStatsNotFound)
}
