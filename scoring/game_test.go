package scoring

import (
	"errors"
	"testing"

	"tennis-live-scoring/models"
)

func TestApplyPoint(t *testing.T) {
	tests := []struct {
		name       string
		tiebreakTo int
		points     string
		wantA      int
		wantB      int
		wantWinner *models.Side
	}{
		{name: "love game", points: "AAAA", wantA: 4, wantB: 0, wantWinner: side(models.SideA)},
		{name: "game to 30", points: "ABABAA", wantA: 4, wantB: 2, wantWinner: side(models.SideA)},
		{name: "deuce is not decided", points: "ABABAB", wantA: 3, wantB: 3},
		{name: "advantage is not decided", points: "ABABABA", wantA: 4, wantB: 3},
		{name: "deuce recovery", points: "ABABABAA", wantA: 5, wantB: 3, wantWinner: side(models.SideA)},
		{name: "back to deuce then B", points: "ABABABABBB", wantA: 4, wantB: 6, wantWinner: side(models.SideB)},
		{name: "tiebreak 7-5", tiebreakTo: 7, points: "BBBBBAAAAAAA", wantA: 7, wantB: 5, wantWinner: side(models.SideA)},
		{name: "tiebreak needs two clear", tiebreakTo: 7, points: "AAAAAABBBBBBA", wantA: 7, wantB: 6},
		{name: "tiebreak 9-7", tiebreakTo: 7, points: "AAAAAABBBBBBABAA", wantA: 9, wantB: 7, wantWinner: side(models.SideA)},
		{name: "match tiebreak keeps going past 7", tiebreakTo: 10, points: "AAAAAAA", wantA: 7, wantB: 0},
		{name: "match tiebreak 10-3", tiebreakTo: 10, points: "BBBAAAAAAAAAA", wantA: 10, wantB: 3, wantWinner: side(models.SideA)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &models.LiveGame{SetNumber: 1, GameNumber: 1, Server: models.SideA, TiebreakTo: tt.tiebreakTo}
			var last GameOutcome
			for i, c := range tt.points {
				out, err := ApplyPoint(g, models.Side(string(c)))
				if err != nil {
					t.Fatalf("point %d: %v", i+1, err)
				}
				if out.Completed && i != len(tt.points)-1 {
					t.Fatalf("game completed early at point %d", i+1)
				}
				last = out
			}
			if g.PointsA != tt.wantA || g.PointsB != tt.wantB {
				t.Fatalf("score = %d-%d, want %d-%d", g.PointsA, g.PointsB, tt.wantA, tt.wantB)
			}
			if sideString(g.Winner) != sideString(tt.wantWinner) {
				t.Fatalf("winner = %s, want %s", sideString(g.Winner), sideString(tt.wantWinner))
			}
			if last.Completed != (tt.wantWinner != nil) {
				t.Fatalf("last outcome completed = %t", last.Completed)
			}
		})
	}
}

func TestApplyPointToDecidedGame(t *testing.T) {
	g := &models.LiveGame{Server: models.SideA, PointsA: 4, Winner: side(models.SideA)}
	if _, err := ApplyPoint(g, models.SideB); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ApplyPoint() error = %v, want invalid state", err)
	}
	if g.PointsB != 0 {
		t.Fatalf("decided game changed: %d-%d", g.PointsA, g.PointsB)
	}
}

func TestIsBreakPoint(t *testing.T) {
	tests := []struct {
		name     string
		server   models.Side
		a, b     int
		tiebreak bool
		want     bool
	}{
		{name: "love all", server: models.SideA, a: 0, b: 0, want: false},
		{name: "love 40", server: models.SideA, a: 0, b: 3, want: true},
		{name: "30 40", server: models.SideA, a: 2, b: 3, want: true},
		{name: "40 30", server: models.SideA, a: 3, b: 2, want: false},
		{name: "deuce", server: models.SideA, a: 3, b: 3, want: false},
		{name: "advantage receiver", server: models.SideA, a: 3, b: 4, want: true},
		{name: "advantage server", server: models.SideA, a: 4, b: 3, want: false},
		{name: "long deuce advantage receiver", server: models.SideA, a: 7, b: 8, want: true},
		{name: "B serving, A at 40", server: models.SideB, a: 3, b: 1, want: true},
		{name: "tiebreak never", server: models.SideA, a: 0, b: 6, tiebreak: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &models.LiveGame{Server: tt.server, PointsA: tt.a, PointsB: tt.b}
			if tt.tiebreak {
				g.TiebreakTo = TiebreakPoints
			}
			if got := IsBreakPoint(g); got != tt.want {
				t.Fatalf("IsBreakPoint() = %t, want %t", got, tt.want)
			}
		})
	}
}
