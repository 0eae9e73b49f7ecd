package scoring

import (
	"math"
	"strconv"
	"time"

	"tennis-live-scoring/models"
)

// MatchView is the display-ready projection of a session. Building it
// never mutates the engine.
type MatchView struct {
	Session       SessionView    `json:"session"`
	Match         *MatchHeader   `json:"match,omitempty"`
	Format        Format         `json:"format"`
	Sets          []SetView      `json:"sets"`
	SetsWonA      int            `json:"sets_won_a"`
	SetsWonB      int            `json:"sets_won_b"`
	CurrentGame   *GameView      `json:"current_game,omitempty"`
	CurrentServer models.Side    `json:"current_server"`
	Winner        *models.Side   `json:"winner,omitempty"`
	Stats         []SetStatsView `json:"stats"`
}

type SessionView struct {
	ID               string               `json:"id"`
	MatchID          string               `json:"match_id"`
	Status           models.SessionStatus `json:"status"`
	CurrentSetNumber int                  `json:"current_set"`
	StartedAt        *time.Time           `json:"started_at,omitempty"`
	EndedAt          *time.Time           `json:"ended_at,omitempty"`
}

type MatchHeader struct {
	Tournament  string     `json:"tournament"`
	Round       string     `json:"round,omitempty"`
	Surface     string     `json:"surface,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	PlayerA     PlayerView `json:"player_a"`
	PlayerB     PlayerView `json:"player_b"`
}

type PlayerView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country,omitempty"`
	Seed      *int   `json:"seed,omitempty"`
}

type SetView struct {
	SetNumber       int          `json:"set_number"`
	GamesA          int          `json:"games_a"`
	GamesB          int          `json:"games_b"`
	IsTiebreak      bool         `json:"is_tiebreak"`
	TiebreakPointsA int          `json:"tiebreak_points_a,omitempty"`
	TiebreakPointsB int          `json:"tiebreak_points_b,omitempty"`
	Winner          *models.Side `json:"winner,omitempty"`
}

// GameView shows the active game in tennis notation. Raw counts are kept
// alongside.
type GameView struct {
	SetNumber  int         `json:"set_number"`
	GameNumber int         `json:"game_number"`
	Server     models.Side `json:"server"`
	PointsA    int         `json:"points_a"`
	PointsB    int         `json:"points_b"`
	ScoreA     string      `json:"score_a"`
	ScoreB     string      `json:"score_b"`
	IsTiebreak bool        `json:"is_tiebreak"`
	Deuce      bool        `json:"deuce"`
	BreakPoint bool        `json:"break_point"`
}

type SetStatsView struct {
	SetNumber int       `json:"set_number"`
	A         StatsView `json:"A"`
	B         StatsView `json:"B"`
}

type StatsView struct {
	models.PlayerSetStats
	FirstServeWonPct        float64 `json:"first_serve_won_pct"`
	BreakPointOpportunities int     `json:"break_point_opportunities"`
}

// View projects the engine state. match may be nil when only the score is
// needed.
func (e *Engine) View(match *models.Match) MatchView {
	s := e.session
	v := MatchView{
		Session: SessionView{
			ID:               s.ID,
			MatchID:          s.MatchID,
			Status:           s.Status,
			CurrentSetNumber: s.CurrentSetNumber,
			StartedAt:        s.StartedAt,
			EndedAt:          s.EndedAt,
		},
		Format:        e.format,
		Sets:          make([]SetView, 0, len(e.sets)),
		SetsWonA:      e.SetsWon(models.SideA),
		SetsWonB:      e.SetsWon(models.SideB),
		CurrentServer: s.CurrentServer,
		Winner:        e.Winner(),
		Stats:         []SetStatsView{},
	}
	if match != nil {
		v.Match = &MatchHeader{
			Tournament:  match.Tournament,
			Round:       match.Round,
			Surface:     match.Surface,
			ScheduledAt: match.ScheduledAt,
			PlayerA:     PlayerViewOf(match.PlayerA, match.PlayerAID, match.PlayerASeed),
			PlayerB:     PlayerViewOf(match.PlayerB, match.PlayerBID, match.PlayerBSeed),
		}
	}
	for _, set := range e.sets {
		v.Sets = append(v.Sets, SetView{
			SetNumber:       set.SetNumber,
			GamesA:          set.GamesA,
			GamesB:          set.GamesB,
			IsTiebreak:      set.IsTiebreak,
			TiebreakPointsA: set.TiebreakPointsA,
			TiebreakPointsB: set.TiebreakPointsB,
			Winner:          set.Winner,
		})
	}
	if s.Status != models.StatusCompleted {
		if g := e.ActiveGame(); g != nil {
			v.CurrentGame = gameView(g)
		}
	}

	bySet := map[int]*SetStatsView{}
	var order []int
	for _, st := range e.Stats() {
		sv, ok := bySet[st.SetNumber]
		if !ok {
			sv = &SetStatsView{
				SetNumber: st.SetNumber,
				A:         StatsView{PlayerSetStats: models.PlayerSetStats{SetNumber: st.SetNumber, Side: models.SideA}},
				B:         StatsView{PlayerSetStats: models.PlayerSetStats{SetNumber: st.SetNumber, Side: models.SideB}},
			}
			bySet[st.SetNumber] = sv
			order = append(order, st.SetNumber)
		}
		if st.Side == models.SideA {
			sv.A.PlayerSetStats = *st
		} else {
			sv.B.PlayerSetStats = *st
		}
	}
	for _, n := range order {
		sv := bySet[n]
		sv.A.derive(sv.B.PlayerSetStats)
		sv.B.derive(sv.A.PlayerSetStats)
		v.Stats = append(v.Stats, *sv)
	}
	return v
}

func (sv *StatsView) derive(opponent models.PlayerSetStats) {
	if sv.FirstServeAttempts > 0 {
		pct := float64(sv.FirstServeWon) / float64(sv.FirstServeAttempts) * 100
		sv.FirstServeWonPct = math.Round(pct*10) / 10
	}
	sv.BreakPointOpportunities = sv.BreakPointsWon + opponent.BreakPointsFaced
}

// PlayerViewOf summarises a preloaded player, falling back to the bare id
// when the player row was not loaded.
func PlayerViewOf(p models.Player, id string, seed *int) PlayerView {
	if p.ID != "" {
		id = p.ID
	}
	return PlayerView{ID: id, FirstName: p.FirstName, LastName: p.LastName, Country: p.Country, Seed: seed}
}

func gameView(g *models.LiveGame) *GameView {
	a, b := GameScore(g)
	return &GameView{
		SetNumber:  g.SetNumber,
		GameNumber: g.GameNumber,
		Server:     g.Server,
		PointsA:    g.PointsA,
		PointsB:    g.PointsB,
		ScoreA:     a,
		ScoreB:     b,
		IsTiebreak: g.IsTiebreak(),
		Deuce:      !g.IsTiebreak() && g.PointsA >= 3 && g.PointsA == g.PointsB,
		BreakPoint: IsBreakPoint(g),
	}
}

var gameCalls = [...]string{"0", "15", "30", "40"}

// GameScore renders the game in tennis notation: 0/15/30/40, with AD for
// the side holding advantage after deuce. Tiebreaks show raw counts.
func GameScore(g *models.LiveGame) (a, b string) {
	if g.IsTiebreak() {
		return strconv.Itoa(g.PointsA), strconv.Itoa(g.PointsB)
	}
	pa, pb := g.PointsA, g.PointsB
	if pa >= 3 && pb >= 3 {
		switch {
		case pa == pb:
			return "40", "40"
		case pa > pb:
			if g.Winner != nil {
				return "W", "40"
			}
			return "AD", "40"
		default:
			if g.Winner != nil {
				return "40", "W"
			}
			return "40", "AD"
		}
	}
	return call(pa), call(pb)
}

func call(points int) string {
	if points < len(gameCalls) {
		return gameCalls[points]
	}
	return "W"
}
