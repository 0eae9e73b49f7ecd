package scoring

import "tennis-live-scoring/models"

const (
	// GamePoints is what a regular game is played to.
	GamePoints = 4
	// TiebreakPoints is what a set tiebreak is played to.
	TiebreakPoints = 7
	// MatchTiebreakPoints is what a deciding-set match tiebreak is played to.
	MatchTiebreakPoints = 10
)

// GameOutcome reports the effect of one point on a game.
type GameOutcome struct {
	Completed bool
	Winner    models.Side
}

// ApplyPoint adds a point for side and reports whether it decided the game.
// A game is won by the first side to reach the target (4, or the tiebreak
// target) with a lead of two. Decided games never change again.
func ApplyPoint(g *models.LiveGame, side models.Side) (GameOutcome, error) {
	if g.Winner != nil {
		return GameOutcome{}, InvalidStatef("game %d of set %d is already decided", g.GameNumber, g.SetNumber)
	}
	if !side.Valid() {
		return GameOutcome{}, Validationf("invalid side %q", side)
	}
	if side == models.SideA {
		g.PointsA++
	} else {
		g.PointsB++
	}

	target := GamePoints
	if g.IsTiebreak() {
		target = g.TiebreakTo
	}
	mine, theirs := g.Points(side), g.Points(side.Opponent())
	if mine >= target && mine-theirs >= 2 {
		w := side
		g.Winner = &w
		return GameOutcome{Completed: true, Winner: side}, nil
	}
	return GameOutcome{}, nil
}

// IsBreakPoint reports whether the receiver is one point from winning the
// regular game g before the next point is played. Tiebreaks have no break
// points.
func IsBreakPoint(g *models.LiveGame) bool {
	if g.IsTiebreak() || g.Winner != nil {
		return false
	}
	srv := g.Points(g.Server)
	rcv := g.Points(g.Server.Opponent())
	return (srv < 3 && rcv == 3) || (srv >= 3 && rcv-srv == 1)
}
