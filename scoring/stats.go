package scoring

import "tennis-live-scoring/models"

// StatsRows hands out the counter row of one side in the current set,
// creating it on first use.
type StatsRows interface {
	Row(side models.Side) *models.PlayerSetStats
}

// PointFacts is everything the stats aggregator needs to know about a
// point. Winner is nil for a first-serve fault.
type PointFacts struct {
	Server      models.Side
	Winner      *models.Side
	ServeType   models.ServeType
	ServeResult models.ServeResult
	Shot        models.ShotOutcome
	// BreakPoint is true when the receiver stood at break point before the
	// point was played.
	BreakPoint bool
}

// RecordPointStats applies one point to the running counters. Counters are
// only ever incremented.
func RecordPointStats(rows StatsRows, p PointFacts) {
	if p.Winner == nil {
		if p.ServeResult == models.ServeResultError && p.ServeType == models.ServeTypeFirst {
			srv := rows.Row(p.Server)
			srv.FirstServeAttempts++
			srv.TotalServes++
		}
		return
	}

	winner := *p.Winner
	receiver := p.Server.Opponent()

	rows.Row(winner).TotalPointsWon++

	switch p.ServeResult {
	case models.ServeResultDoubleFault:
		srv := rows.Row(p.Server)
		srv.DoubleFaults++
		srv.TotalServes += 2
	case models.ServeResultAce, models.ServeResultWon:
		if winner != p.Server {
			break
		}
		srv := rows.Row(p.Server)
		if p.ServeResult == models.ServeResultAce {
			srv.Aces++
		}
		switch p.ServeType {
		case models.ServeTypeFirst:
			srv.FirstServeWon++
			srv.FirstServeAttempts++
			srv.TotalServes++
		case models.ServeTypeSecond:
			srv.SecondServeWon++
			srv.TotalServes++
		}
	}

	// Shot outcomes are credited to the point's winner as submitted by the
	// scorer, including unforced errors.
	switch p.Shot {
	case models.ShotWinner:
		rows.Row(winner).Winners++
	case models.ShotUnforcedError:
		rows.Row(winner).UnforcedErrors++
	}

	if p.BreakPoint {
		if winner == receiver {
			rows.Row(receiver).BreakPointsWon++
		} else {
			rows.Row(p.Server).BreakPointsFaced++
		}
	}
}
