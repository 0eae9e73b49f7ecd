package scoring

import (
	"fmt"
	"time"

	"tennis-live-scoring/models"
)

// ReplayReport compares a live-recorded session against the state rebuilt
// from its point log.
type ReplayReport struct {
	SessionID      string   `json:"session_id"`
	PointsReplayed int      `json:"points_replayed"`
	Consistent     bool     `json:"consistent"`
	Differences    []string `json:"differences"`
}

// Replay feeds points, in log order, through a fresh engine that starts
// with firstServer serving.
func Replay(matchID string, format Format, firstServer models.Side, points []models.LivePoint, opts Options) (*Engine, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if !firstServer.Valid() {
		return nil, Validationf("first server must be A or B")
	}
	e := newEngine(matchID, format, firstServer, opts)
	if err := e.Start(""); err != nil {
		return nil, err
	}
	for i, p := range points {
		if g := e.ActiveGame(); g != nil && g.Server != p.Server {
			return nil, InvalidStatef("point %d (set %d game %d): logged server %s, replay has %s", i+1, p.SetNumber, p.GameNumber, p.Server, g.Server)
		}
		if _, err := e.RecordPoint(PointInput{
			Side:        p.Winner,
			ServeType:   p.ServeType,
			ServeResult: p.ServeResult,
			Shot:        p.Shot,
			ShotDetail:  p.ShotDetail,
			Notes:       p.Notes,
			RecordedBy:  p.RecordedBy,
		}); err != nil {
			return nil, fmt.Errorf("replay point %d (set %d game %d): %w", i+1, p.SetNumber, p.GameNumber, err)
		}
	}
	e.TakeChanges()
	return e, nil
}

// Compare lists every scoring difference between live and replayed. Status
// is only compared for matches the replay decided, since lifecycle
// commands are not part of the point log.
func Compare(live, replayed *Engine) []string {
	var diffs []string
	add := func(format string, args ...interface{}) {
		diffs = append(diffs, fmt.Sprintf(format, args...))
	}

	ls, rs := live.Session(), replayed.Session()
	if ls.CurrentSetNumber != rs.CurrentSetNumber {
		add("current set: live %d, replay %d", ls.CurrentSetNumber, rs.CurrentSetNumber)
	}
	if ls.CurrentServer != rs.CurrentServer {
		add("current server: live %s, replay %s", ls.CurrentServer, rs.CurrentServer)
	}
	if rs.Status == models.StatusCompleted && ls.Status != models.StatusCompleted {
		add("status: live %s, replay %s", ls.Status, rs.Status)
	}

	if len(live.Sets()) != len(replayed.Sets()) {
		add("sets: live %d, replay %d", len(live.Sets()), len(replayed.Sets()))
	}
	for i := 0; i < len(live.Sets()) && i < len(replayed.Sets()); i++ {
		a, b := live.Sets()[i], replayed.Sets()[i]
		if a.GamesA != b.GamesA || a.GamesB != b.GamesB || a.IsTiebreak != b.IsTiebreak ||
			a.TiebreakPointsA != b.TiebreakPointsA || a.TiebreakPointsB != b.TiebreakPointsB ||
			sideString(a.Winner) != sideString(b.Winner) {
			add("set %d: live %s, replay %s", a.SetNumber, setString(a), setString(b))
		}
	}

	if len(live.Games()) != len(replayed.Games()) {
		add("games: live %d, replay %d", len(live.Games()), len(replayed.Games()))
	}
	for i := 0; i < len(live.Games()) && i < len(replayed.Games()); i++ {
		a, b := live.Games()[i], replayed.Games()[i]
		if a.SetNumber != b.SetNumber || a.GameNumber != b.GameNumber || a.PointsA != b.PointsA ||
			a.PointsB != b.PointsB || a.Server != b.Server || a.TiebreakTo != b.TiebreakTo ||
			sideString(a.Winner) != sideString(b.Winner) {
			add("game %d.%d: live %s, replay %s", a.SetNumber, a.GameNumber, gameString(a), gameString(b))
		}
	}

	lst, rst := live.Stats(), replayed.Stats()
	if len(lst) != len(rst) {
		add("stats rows: live %d, replay %d", len(lst), len(rst))
	}
	for i := 0; i < len(lst) && i < len(rst); i++ {
		if a, b := countersOf(lst[i]), countersOf(rst[i]); a != b {
			add("stats set %d side %s: live %s, replay %s", a.SetNumber, a.Side, statsString(a), statsString(b))
		}
	}
	return diffs
}

// countersOf strips identity and timestamps so two rows compare by their
// counters alone.
func countersOf(s *models.PlayerSetStats) models.PlayerSetStats {
	c := *s
	c.ID, c.SessionID = "", ""
	c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
	return c
}

func sideString(s *models.Side) string {
	if s == nil {
		return "-"
	}
	return string(*s)
}

func setString(s *models.LiveSet) string {
	return fmt.Sprintf("%d-%d tb=%t (%d-%d) winner=%s", s.GamesA, s.GamesB, s.IsTiebreak, s.TiebreakPointsA, s.TiebreakPointsB, sideString(s.Winner))
}

func gameString(g *models.LiveGame) string {
	return fmt.Sprintf("%d-%d server=%s winner=%s", g.PointsA, g.PointsB, g.Server, sideString(g.Winner))
}

func statsString(s models.PlayerSetStats) string {
	return fmt.Sprintf("aces=%d df=%d 1st=%d/%d 2nd=%d w=%d ue=%d bp=%d/%d pts=%d serves=%d",
		s.Aces, s.DoubleFaults, s.FirstServeWon, s.FirstServeAttempts, s.SecondServeWon,
		s.Winners, s.UnforcedErrors, s.BreakPointsWon, s.BreakPointsFaced, s.TotalPointsWon, s.TotalServes)
}
