package scoring

import (
	"fmt"
	"testing"
	"time"

	"tennis-live-scoring/models"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	n := 0
	return Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		},
	}
}

func side(s models.Side) *models.Side { return &s }

// startedEngine returns an in-progress session with A serving first and an
// empty change set.
func startedEngine(t *testing.T, format Format) *Engine {
	t.Helper()
	match := &models.Match{ID: "match-1", BestOf: format.BestOf, FinalSet: format.FinalSet}
	e, err := NewSession(match, nil, testOptions())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := e.Start("scorer-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	e.TakeChanges()
	return e
}

func playPoint(t *testing.T, e *Engine, s models.Side) *PointResult {
	t.Helper()
	res, err := e.RecordPoint(PointInput{Side: side(s)})
	if err != nil {
		t.Fatalf("RecordPoint(%s): %v", s, err)
	}
	return res
}

func playPoints(t *testing.T, e *Engine, seq string) {
	t.Helper()
	for _, c := range seq {
		playPoint(t, e, models.Side(string(c)))
	}
}

// winGame plays the active game out for s without conceding a point.
func winGame(t *testing.T, e *Engine, s models.Side) {
	t.Helper()
	g := e.ActiveGame()
	if g == nil {
		t.Fatalf("no active game")
	}
	number, set := g.GameNumber, g.SetNumber
	for e.Session().Status == models.StatusInProgress {
		cur := e.ActiveGame()
		if cur == nil || cur.GameNumber != number || cur.SetNumber != set {
			return
		}
		playPoint(t, e, s)
	}
}

func winGames(t *testing.T, e *Engine, s models.Side, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		winGame(t, e, s)
	}
}

func statsRow(e *Engine, set int, s models.Side) *models.PlayerSetStats {
	for _, st := range e.Stats() {
		if st.SetNumber == set && st.Side == s {
			return st
		}
	}
	return nil
}
