package scoring

import (
	"errors"
	"strconv"

	"github.com/padelhub/live-scoring/models"
)

// ErrMatchAlreadyFinished is returned when a point is applied to a snapshot
// whose winner is already decided. A finished match accepts no further points.
var ErrMatchAlreadyFinished = errors.New("match is already finished")

// setsToWin: padel is best of three.
const setsToWin = 2

// Standard score ladder. Anything at "40" is handled explicitly.
var nextPoint = map[string]string{
	"0":  "15",
	"15": "30",
	"30": "40",
}

// PointOutcome is everything one scoring transition produces: the replacement
// snapshot, the history row (point ordinal left for the store to assign) and,
// when the point closed a set, the completed-set record.
type PointOutcome struct {
	NextSnapshot models.MatchSnapshot
	History      models.PointHistory
	SetCompleted *models.MatchSet
}

// Apply computes the next match state for a point credited to scorer.
// Pure: it never touches I/O and never mutates current.
func Apply(current models.MatchSnapshot, scorer models.Side, method models.PointMethod, stroke *models.Stroke, isNetPoint bool) (*PointOutcome, error) {
	if current.WinnerSide != nil {
		return nil, ErrMatchAlreadyFinished
	}

	// Flags describe the situation before the point lands.
	gamePoint, setPoint, matchPoint := prePointFlags(&current)

	next := current
	receiver := scorer.Other()

	if next.IsTieBreak {
		applyTieBreakPoint(&next, scorer)
	} else {
		applyStandardPoint(&next, scorer, receiver)
	}

	var setCompleted *models.MatchSet
	if hasWonSet(&next, scorer) {
		setCompleted = closeSet(&next, scorer)
	}

	return &PointOutcome{
		NextSnapshot: next,
		History: models.PointHistory{
			MatchID:         current.MatchID,
			SetNumber:       current.CurrentSetIdx,
			GameNumber:      current.SideAGames + current.SideBGames + 1,
			WinnerSide:      scorer,
			Method:          method,
			Stroke:          stroke,
			IsNetPoint:      isNetPoint,
			ScoreAfterSideA: next.SideAScore,
			ScoreAfterSideB: next.SideBScore,
			IsGamePoint:     gamePoint,
			IsSetPoint:      setPoint,
			IsMatchPoint:    matchPoint,
		},
		SetCompleted: setCompleted,
	}, nil
}

func applyStandardPoint(s *models.MatchSnapshot, scorer, receiver models.Side) {
	scoreScorer := s.Score(scorer)
	scoreReceiver := s.Score(receiver)
	isDeuce := scoreScorer == "40" && scoreReceiver == "40"

	// Golden point: 40-40 is decided outright, no advantage state exists.
	if s.HasGoldPoint && isDeuce {
		winGame(s, scorer)
		return
	}

	if !s.HasGoldPoint {
		if isDeuce {
			setScore(s, scorer, "AD")
			return
		}
		if scoreScorer == "AD" {
			winGame(s, scorer)
			return
		}
		if scoreReceiver == "AD" {
			// Advantage lost: back to deuce.
			setScore(s, receiver, "40")
			return
		}
	}

	if scoreScorer == "40" {
		winGame(s, scorer)
		return
	}

	if v, ok := nextPoint[scoreScorer]; ok {
		setScore(s, scorer, v)
	} else {
		setScore(s, scorer, "40")
	}
}

func applyTieBreakPoint(s *models.MatchSnapshot, scorer models.Side) {
	pts := scoreInt(s.Score(scorer)) + 1
	setScore(s, scorer, strconv.Itoa(pts))
}

func winGame(s *models.MatchSnapshot, side models.Side) {
	s.SideAScore = "0"
	s.SideBScore = "0"

	if side == models.SideA {
		s.SideAGames++
	} else {
		s.SideBGames++
	}

	if s.SideAGames == 6 && s.SideBGames == 6 {
		s.IsTieBreak = true
	}
}

func setScore(s *models.MatchSnapshot, side models.Side, val string) {
	if side == models.SideA {
		s.SideAScore = val
	} else {
		s.SideBScore = val
	}
}

func hasWonSet(s *models.MatchSnapshot, side models.Side) bool {
	if s.IsTieBreak {
		mine := scoreInt(s.Score(side))
		theirs := scoreInt(s.Score(side.Other()))
		return mine >= 7 && mine-theirs >= 2
	}

	myGames := s.Games(side)
	otherGames := s.Games(side.Other())

	// 6-0 through 6-4, or 7-5 after a 5-5 set.
	if myGames == 6 && otherGames <= 4 {
		return true
	}
	if myGames == 7 && otherGames == 5 {
		return true
	}
	return false
}

// closeSet records the finished set on the snapshot, then either ends the
// match or rolls state forward into the next set. The match-win decision is
// made purely from the snapshot's own set counters, never from the set index.
func closeSet(s *models.MatchSnapshot, winner models.Side) *models.MatchSet {
	set := &models.MatchSet{
		MatchID:   s.MatchID,
		SetNumber: s.CurrentSetIdx,
	}

	if s.IsTieBreak {
		// A tie-break set always ends 7-6.
		if winner == models.SideA {
			s.SideAGames++
		} else {
			s.SideBGames++
		}
		tbA := scoreInt(s.SideAScore)
		tbB := scoreInt(s.SideBScore)
		set.TieBreakSideAPoints = &tbA
		set.TieBreakSideBPoints = &tbB
	}
	set.SideAGames = s.SideAGames
	set.SideBGames = s.SideBGames

	if winner == models.SideA {
		s.SideASets++
	} else {
		s.SideBSets++
	}

	if s.Sets(winner) >= setsToWin {
		w := winner
		s.WinnerSide = &w
		s.Status = models.MatchStatusFinished
		return set
	}

	s.CurrentSetIdx++
	s.SideAGames = 0
	s.SideBGames = 0
	s.SideAScore = "0"
	s.SideBScore = "0"
	s.IsTieBreak = false
	return set
}

// prePointFlags computes game/set/match point for the state a point is about
// to be played from. Under golden point both sides hold game point at 40-40.
func prePointFlags(s *models.MatchSnapshot) (gamePoint, setPoint, matchPoint bool) {
	var owners []models.Side

	if s.IsTieBreak {
		pa := scoreInt(s.SideAScore)
		pb := scoreInt(s.SideBScore)
		if pa >= 6 && pa-pb >= 1 {
			owners = append(owners, models.SideA)
		}
		if pb >= 6 && pb-pa >= 1 {
			owners = append(owners, models.SideB)
		}
		if len(owners) > 0 {
			gamePoint = true
			// Winning the tie-break game wins the set.
			setPoint = true
			for _, side := range owners {
				if s.Sets(side) >= setsToWin-1 {
					matchPoint = true
				}
			}
		}
		return gamePoint, setPoint, matchPoint
	}

	sa := s.SideAScore
	sb := s.SideBScore
	isDeuce := sa == "40" && sb == "40"

	switch {
	case s.HasGoldPoint && isDeuce:
		owners = []models.Side{models.SideA, models.SideB}
	default:
		if (sa == "40" && sb != "40" && sb != "AD") || sa == "AD" {
			owners = append(owners, models.SideA)
		}
		if (sb == "40" && sa != "40" && sa != "AD") || sb == "AD" {
			owners = append(owners, models.SideB)
		}
	}

	if len(owners) == 0 {
		return false, false, false
	}
	gamePoint = true

	for _, side := range owners {
		myGames := s.Games(side)
		otherGames := s.Games(side.Other())
		canWinSet := myGames >= 5 && (myGames > otherGames || myGames == 6)
		if !canWinSet {
			continue
		}
		setPoint = true
		if s.Sets(side) >= setsToWin-1 {
			matchPoint = true
		}
	}
	return gamePoint, setPoint, matchPoint
}

func scoreInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
