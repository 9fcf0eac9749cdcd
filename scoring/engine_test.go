package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padelhub/live-scoring/models"
)

func newSnapshot(goldPoint bool) models.MatchSnapshot {
	return models.NewMatchSnapshot(1, goldPoint)
}

// winPoints feeds n consecutive winning shots for one side through Apply.
func winPoints(t *testing.T, snap models.MatchSnapshot, side models.Side, n int) models.MatchSnapshot {
	t.Helper()
	for i := 0; i < n; i++ {
		out, err := Apply(snap, side, models.MethodWinningShot, nil, false)
		require.NoError(t, err)
		snap = out.NextSnapshot
	}
	return snap
}

func TestStandardScoreLadder(t *testing.T) {
	snap := newSnapshot(false)

	expected := []string{"15", "30", "40"}
	for _, want := range expected {
		out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
		require.NoError(t, err)
		snap = out.NextSnapshot
		require.Equal(t, want, snap.SideAScore)
		require.Equal(t, "0", snap.SideBScore)
	}

	// Fourth point takes the game.
	out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	snap = out.NextSnapshot
	require.Equal(t, 1, snap.SideAGames)
	require.Equal(t, 0, snap.SideBGames)
	require.Equal(t, "0", snap.SideAScore)
	require.Equal(t, "0", snap.SideBScore)
	require.Equal(t, 1, snap.CurrentSetIdx)
}

func TestDeuceAdvantageCycle(t *testing.T) {
	snap := newSnapshot(false)
	snap = winPoints(t, snap, models.SideA, 3)
	snap = winPoints(t, snap, models.SideB, 3)
	require.Equal(t, "40", snap.SideAScore)
	require.Equal(t, "40", snap.SideBScore)

	// A takes advantage.
	out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	snap = out.NextSnapshot
	require.Equal(t, "AD", snap.SideAScore)
	require.Equal(t, "40", snap.SideBScore)

	// B scores: back to deuce exactly, no game won.
	out, err = Apply(snap, models.SideB, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	snap = out.NextSnapshot
	require.Equal(t, "40", snap.SideAScore)
	require.Equal(t, "40", snap.SideBScore)
	require.Equal(t, 0, snap.SideAGames)
	require.Equal(t, 0, snap.SideBGames)

	// A again: advantage, then game.
	snap = winPoints(t, snap, models.SideA, 2)
	require.Equal(t, 1, snap.SideAGames)
	require.Equal(t, "0", snap.SideAScore)
	require.Equal(t, "0", snap.SideBScore)
}

func TestGoldenPointDecidesDeuce(t *testing.T) {
	for _, scorer := range []models.Side{models.SideA, models.SideB} {
		snap := newSnapshot(true)
		snap = winPoints(t, snap, models.SideA, 3)
		snap = winPoints(t, snap, models.SideB, 3)

		out, err := Apply(snap, scorer, models.MethodWinningShot, nil, false)
		require.NoError(t, err)
		next := out.NextSnapshot
		require.Equal(t, 1, next.Games(scorer), "golden point must win the game outright for %s", scorer)
		require.Equal(t, "0", next.SideAScore)
		require.Equal(t, "0", next.SideBScore)
	}
}

func TestGoldenPointFlagsBothSides(t *testing.T) {
	snap := newSnapshot(true)
	snap = winPoints(t, snap, models.SideA, 3)
	snap = winPoints(t, snap, models.SideB, 3)

	out, err := Apply(snap, models.SideB, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.True(t, out.History.IsGamePoint)
}

func TestSetWinSixLove(t *testing.T) {
	snap := newSnapshot(false)
	snap = winPoints(t, snap, models.SideA, 23)

	// 24th point closes the sixth game and the set.
	out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)

	require.NotNil(t, out.SetCompleted)
	require.Equal(t, 1, out.SetCompleted.SetNumber)
	require.Equal(t, 6, out.SetCompleted.SideAGames)
	require.Equal(t, 0, out.SetCompleted.SideBGames)
	require.Nil(t, out.SetCompleted.TieBreakSideAPoints)

	next := out.NextSnapshot
	require.Equal(t, 1, next.SideASets)
	require.Equal(t, 2, next.CurrentSetIdx)
	require.Equal(t, 0, next.SideAGames)
	require.Equal(t, 0, next.SideBGames)
	require.Equal(t, "0", next.SideAScore)
	require.Equal(t, "0", next.SideBScore)
	require.False(t, next.IsTieBreak)
	require.Nil(t, next.WinnerSide)
}

func TestSetWinSevenFive(t *testing.T) {
	snap := newSnapshot(false)
	// Alternate games to 5-5, then A takes two.
	for i := 0; i < 5; i++ {
		snap = winPoints(t, snap, models.SideA, 4)
		snap = winPoints(t, snap, models.SideB, 4)
	}
	require.Equal(t, 5, snap.SideAGames)
	require.Equal(t, 5, snap.SideBGames)

	snap = winPoints(t, snap, models.SideA, 4) // 6-5
	require.False(t, snap.IsTieBreak)

	out := applyLastPoint(t, &snap, models.SideA, 4) // 7-5
	require.NotNil(t, out.SetCompleted)
	require.Equal(t, 7, out.SetCompleted.SideAGames)
	require.Equal(t, 5, out.SetCompleted.SideBGames)
	require.Equal(t, 1, out.NextSnapshot.SideASets)
}

// applyLastPoint plays n points for side and returns the outcome of the nth.
func applyLastPoint(t *testing.T, snap *models.MatchSnapshot, side models.Side, n int) *PointOutcome {
	t.Helper()
	*snap = winPoints(t, *snap, side, n-1)
	out, err := Apply(*snap, side, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	*snap = out.NextSnapshot
	return out
}

func TestTieBreakEntryAndWin(t *testing.T) {
	snap := newSnapshot(false)
	// 5-5 then 6-5, 6-6.
	for i := 0; i < 5; i++ {
		snap = winPoints(t, snap, models.SideA, 4)
		snap = winPoints(t, snap, models.SideB, 4)
	}
	snap = winPoints(t, snap, models.SideA, 4)
	snap = winPoints(t, snap, models.SideB, 4)

	require.Equal(t, 6, snap.SideAGames)
	require.Equal(t, 6, snap.SideBGames)
	require.True(t, snap.IsTieBreak)
	require.Equal(t, "0", snap.SideAScore)
	require.Equal(t, "0", snap.SideBScore)

	// Tie-break counts integers.
	snap = winPoints(t, snap, models.SideA, 3)
	snap = winPoints(t, snap, models.SideB, 5)
	require.Equal(t, "3", snap.SideAScore)
	require.Equal(t, "5", snap.SideBScore)

	// 6-5 for B is not enough: needs seven with a two-point lead.
	snap = winPoints(t, snap, models.SideB, 1)
	require.Nil(t, snap.WinnerSide)
	require.Equal(t, 6, snap.SideBGames)

	out := applyLastPoint(t, &snap, models.SideB, 1) // 7-3
	require.NotNil(t, out.SetCompleted)
	require.Equal(t, 6, out.SetCompleted.SideAGames)
	require.Equal(t, 7, out.SetCompleted.SideBGames)
	require.NotNil(t, out.SetCompleted.TieBreakSideAPoints)
	require.Equal(t, 3, *out.SetCompleted.TieBreakSideAPoints)
	require.Equal(t, 7, *out.SetCompleted.TieBreakSideBPoints)

	next := out.NextSnapshot
	require.Equal(t, 1, next.SideBSets)
	require.Equal(t, 2, next.CurrentSetIdx)
	require.False(t, next.IsTieBreak)
}

func TestTieBreakNeedsTwoPointLead(t *testing.T) {
	snap := newSnapshot(false)
	snap.IsTieBreak = true
	snap.SideAGames = 6
	snap.SideBGames = 6
	snap.SideAScore = "6"
	snap.SideBScore = "6"

	// 7-6 does not close the tie-break.
	out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.Nil(t, out.SetCompleted)
	require.Equal(t, "7", out.NextSnapshot.SideAScore)

	// 8-6 does.
	out, err = Apply(out.NextSnapshot, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.NotNil(t, out.SetCompleted)
	require.Equal(t, 8, *out.SetCompleted.TieBreakSideAPoints)
}

func TestMatchWinTwoSets(t *testing.T) {
	snap := newSnapshot(false)
	snap = winPoints(t, snap, models.SideA, 23)
	out := applyLastPoint(t, &snap, models.SideA, 1) // set 1, 6-0
	require.Equal(t, 1, out.NextSnapshot.SideASets)

	snap = winPoints(t, snap, models.SideA, 23)
	out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)

	next := out.NextSnapshot
	require.NotNil(t, next.WinnerSide)
	require.Equal(t, models.SideA, *next.WinnerSide)
	require.Equal(t, models.MatchStatusFinished, next.Status)
	require.Equal(t, 2, next.SideASets)
	require.NotNil(t, out.SetCompleted)

	// Terminal snapshot rejects any further point.
	_, err = Apply(next, models.SideB, models.MethodWinningShot, nil, false)
	require.ErrorIs(t, err, ErrMatchAlreadyFinished)
}

func TestDecidingSetResolvesFromCounters(t *testing.T) {
	// Sets split 1-1; the winner of the third set must win the match, and the
	// decision must come from the set counters alone.
	snap := newSnapshot(false)
	snap.SideASets = 1
	snap.SideBSets = 1
	snap.CurrentSetIdx = 3
	snap.SideBGames = 5

	snap = winPoints(t, snap, models.SideB, 3)
	out, err := Apply(snap, models.SideB, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.NotNil(t, out.NextSnapshot.WinnerSide)
	require.Equal(t, models.SideB, *out.NextSnapshot.WinnerSide)
	require.Equal(t, models.MatchStatusFinished, out.NextSnapshot.Status)
}

func TestSecondSetNotMistakenForMatchWin(t *testing.T) {
	// Set index 2 with sets 1-0 for A: B winning the set must not end the match.
	snap := newSnapshot(false)
	snap.SideASets = 1
	snap.CurrentSetIdx = 2
	snap.SideBGames = 5

	snap = winPoints(t, snap, models.SideB, 3)
	out, err := Apply(snap, models.SideB, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.Nil(t, out.NextSnapshot.WinnerSide)
	require.Equal(t, 3, out.NextSnapshot.CurrentSetIdx)
	require.Equal(t, 1, out.NextSnapshot.SideBSets)
}

func TestPrePointFlags(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.MatchSnapshot)
		gamePoint  bool
		setPoint   bool
		matchPoint bool
	}{
		{
			name:   "no flags at love all",
			mutate: func(s *models.MatchSnapshot) {},
		},
		{
			name: "game point at 40-15",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAScore = "40"
				s.SideBScore = "15"
			},
			gamePoint: true,
		},
		{
			name: "advantage is game point",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAScore = "AD"
				s.SideBScore = "40"
			},
			gamePoint: true,
		},
		{
			name: "plain deuce is nobody's game point",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAScore = "40"
				s.SideBScore = "40"
			},
		},
		{
			name: "golden point deuce is decisive",
			mutate: func(s *models.MatchSnapshot) {
				s.HasGoldPoint = true
				s.SideAScore = "40"
				s.SideBScore = "40"
			},
			gamePoint: true,
		},
		{
			name: "set point at 5-3 40-0",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAGames = 5
				s.SideBGames = 3
				s.SideAScore = "40"
			},
			gamePoint: true,
			setPoint:  true,
		},
		{
			name: "game point at 5-5 is not set point",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAGames = 5
				s.SideBGames = 5
				s.SideAScore = "40"
			},
			gamePoint: true,
		},
		{
			name: "set point at 6-5",
			mutate: func(s *models.MatchSnapshot) {
				s.SideAGames = 6
				s.SideBGames = 5
				s.SideAScore = "40"
			},
			gamePoint: true,
			setPoint:  true,
		},
		{
			name: "match point with one set banked",
			mutate: func(s *models.MatchSnapshot) {
				s.SideASets = 1
				s.SideAGames = 5
				s.SideAScore = "40"
			},
			gamePoint:  true,
			setPoint:   true,
			matchPoint: true,
		},
		{
			name: "tie-break game point is set point",
			mutate: func(s *models.MatchSnapshot) {
				s.IsTieBreak = true
				s.SideAGames = 6
				s.SideBGames = 6
				s.SideAScore = "6"
				s.SideBScore = "4"
			},
			gamePoint: true,
			setPoint:  true,
		},
		{
			name: "tie-break match point",
			mutate: func(s *models.MatchSnapshot) {
				s.IsTieBreak = true
				s.SideBSets = 1
				s.SideAGames = 6
				s.SideBGames = 6
				s.SideAScore = "5"
				s.SideBScore = "6"
			},
			gamePoint:  true,
			setPoint:   true,
			matchPoint: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := newSnapshot(false)
			tc.mutate(&snap)

			out, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
			require.NoError(t, err)
			require.Equal(t, tc.gamePoint, out.History.IsGamePoint, "game point")
			require.Equal(t, tc.setPoint, out.History.IsSetPoint, "set point")
			require.Equal(t, tc.matchPoint, out.History.IsMatchPoint, "match point")
		})
	}
}

func TestHistoryRecordsPrePointOrdinalsAndPostPointScore(t *testing.T) {
	snap := newSnapshot(false)
	snap = winPoints(t, snap, models.SideA, 4) // game 1 done

	stroke := models.StrokeSmash
	out, err := Apply(snap, models.SideB, models.MethodWinningShot, &stroke, true)
	require.NoError(t, err)

	h := out.History
	require.Equal(t, 1, h.SetNumber)
	require.Equal(t, 2, h.GameNumber) // 1+0 games played, so game 2 is running
	require.Equal(t, models.SideB, h.WinnerSide)
	require.Equal(t, models.MethodWinningShot, h.Method)
	require.NotNil(t, h.Stroke)
	require.Equal(t, models.StrokeSmash, *h.Stroke)
	require.True(t, h.IsNetPoint)
	require.Equal(t, "0", h.ScoreAfterSideA)
	require.Equal(t, "15", h.ScoreAfterSideB)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	snap := newSnapshot(false)
	snap.SideAScore = "30"

	_, err := Apply(snap, models.SideA, models.MethodWinningShot, nil, false)
	require.NoError(t, err)
	require.Equal(t, "30", snap.SideAScore)
	require.Equal(t, 0, snap.SideAGames)
}
