package scoring

import "tennis-live-scoring/models"

// GamesToWinSet is the game count a side needs (with a two-game lead) to
// take a set.
const GamesToWinSet = 6

// SetOutcome reports the effect of one finished game on its set.
type SetOutcome struct {
	Completed       bool
	Winner          models.Side
	TiebreakStarted bool
}

// ApplyGameResult credits a finished game to winner.
//
// The set goes to the first side with six games and a two-game lead, or to
// the winner of the set's tiebreak game. At 6-6 the set switches to
// tiebreak mode when tiebreakAllowed is set; otherwise play continues until
// someone leads by two.
func ApplyGameResult(set *models.LiveSet, winner models.Side, tiebreakAllowed bool) (SetOutcome, error) {
	if set.Winner != nil {
		return SetOutcome{}, InvalidStatef("set %d is already decided", set.SetNumber)
	}
	if !winner.Valid() {
		return SetOutcome{}, Validationf("invalid side %q", winner)
	}
	if winner == models.SideA {
		set.GamesA++
	} else {
		set.GamesB++
	}

	if set.IsTiebreak {
		w := winner
		set.Winner = &w
		return SetOutcome{Completed: true, Winner: winner}, nil
	}

	mine, theirs := set.Games(winner), set.Games(winner.Opponent())
	if mine >= GamesToWinSet && mine-theirs >= 2 {
		w := winner
		set.Winner = &w
		return SetOutcome{Completed: true, Winner: winner}, nil
	}
	if tiebreakAllowed && set.GamesA == GamesToWinSet && set.GamesB == GamesToWinSet {
		set.IsTiebreak = true
		return SetOutcome{TiebreakStarted: true}, nil
	}
	return SetOutcome{}, nil
}
