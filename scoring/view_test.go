package scoring

import (
	"reflect"
	"testing"

	"tennis-live-scoring/models"
)

func TestGameScore(t *testing.T) {
	tests := []struct {
		name       string
		a, b       int
		tiebreakTo int
		winner     *models.Side
		wantA      string
		wantB      string
	}{
		{name: "love all", wantA: "0", wantB: "0"},
		{name: "15-0", a: 1, wantA: "15", wantB: "0"},
		{name: "30-15", a: 2, b: 1, wantA: "30", wantB: "15"},
		{name: "40-30", a: 3, b: 2, wantA: "40", wantB: "30"},
		{name: "deuce", a: 3, b: 3, wantA: "40", wantB: "40"},
		{name: "long deuce", a: 6, b: 6, wantA: "40", wantB: "40"},
		{name: "advantage A", a: 4, b: 3, wantA: "AD", wantB: "40"},
		{name: "advantage B", a: 5, b: 6, wantA: "40", wantB: "AD"},
		{name: "game A", a: 4, b: 1, winner: side(models.SideA), wantA: "W", wantB: "15"},
		{name: "tiebreak raw", a: 5, b: 3, tiebreakTo: 7, wantA: "5", wantB: "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &models.LiveGame{PointsA: tt.a, PointsB: tt.b, TiebreakTo: tt.tiebreakTo, Winner: tt.winner}
			a, b := GameScore(g)
			if a != tt.wantA || b != tt.wantB {
				t.Fatalf("GameScore() = %s-%s, want %s-%s", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestView(t *testing.T) {
	seed := 3
	match := &models.Match{
		ID:          "match-1",
		Tournament:  "Roland Garros",
		Round:       "QF",
		Surface:     "clay",
		PlayerAID:   "p-a",
		PlayerBID:   "p-b",
		PlayerA:     models.Player{ID: "p-a", FirstName: "Carlos", LastName: "Alcaraz", Country: "ESP"},
		PlayerB:     models.Player{ID: "p-b", FirstName: "Jannik", LastName: "Sinner", Country: "ITA"},
		PlayerBSeed: &seed,
	}
	e := startedEngine(t, DefaultFormat())
	winGames(t, e, models.SideA, 6)
	if _, err := e.RecordPoint(PointInput{Side: side(models.SideA), ServeType: models.ServeTypeFirst, ServeResult: models.ServeResultAce}); err != nil {
		t.Fatalf("ace: %v", err)
	}
	playPoints(t, e, "BBBA")

	v := e.View(match)
	if v.Match == nil || v.Match.PlayerA.LastName != "Alcaraz" || v.Match.PlayerB.Seed == nil || *v.Match.PlayerB.Seed != 3 {
		t.Fatalf("match header = %+v", v.Match)
	}
	if len(v.Sets) != 2 || v.Sets[0].GamesA != 6 || sideString(v.Sets[0].Winner) != "A" {
		t.Fatalf("sets = %+v", v.Sets)
	}
	if v.SetsWonA != 1 || v.SetsWonB != 0 || v.Winner != nil {
		t.Fatalf("sets won = %d-%d winner %s", v.SetsWonA, v.SetsWonB, sideString(v.Winner))
	}
	cg := v.CurrentGame
	if cg == nil || cg.SetNumber != 2 || cg.GameNumber != 1 || cg.ScoreA != "30" || cg.ScoreB != "40" || !cg.BreakPoint {
		t.Fatalf("current game = %+v", cg)
	}
	if v.CurrentServer != models.SideA {
		t.Fatalf("current server = %s", v.CurrentServer)
	}
	if len(v.Stats) != 2 || v.Stats[0].SetNumber != 1 || v.Stats[1].SetNumber != 2 {
		t.Fatalf("stats = %+v", v.Stats)
	}
	s2 := v.Stats[1]
	if s2.A.Aces != 1 || s2.A.FirstServeWonPct != 100 || s2.A.BreakPointsFaced != 1 {
		t.Fatalf("set 2 A stats = %+v", s2.A)
	}
	if s2.B.BreakPointOpportunities != 1 || s2.B.TotalPointsWon != 3 {
		t.Fatalf("set 2 B stats = %+v", s2.B)
	}
	if v.Stats[0].B.TotalPointsWon != 0 || v.Stats[0].B.Side != models.SideB {
		t.Fatalf("set 1 B stats should be an empty row: %+v", v.Stats[0].B)
	}

	if again := e.View(match); !reflect.DeepEqual(v, again) {
		t.Fatalf("View is not deterministic")
	}
}

func TestViewOfCompletedMatch(t *testing.T) {
	e := startedEngine(t, Format{BestOf: 1, FinalSet: models.FinalSetTiebreak})
	winGames(t, e, models.SideB, 6)
	v := e.View(nil)
	if v.Session.Status != models.StatusCompleted || v.CurrentGame != nil || sideString(v.Winner) != "B" || v.Match != nil {
		t.Fatalf("view = %+v", v)
	}
}
