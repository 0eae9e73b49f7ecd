package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tennis-live-scoring/middleware"
	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "live.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testOptions() scoring.Options {
	var mu sync.Mutex
	n := 0
	return scoring.Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
		},
	}
}

func newTestService(t *testing.T) (*LiveScoringService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewLiveScoringServiceWithOptions(db, testOptions())
	svc.StreamPollInterval = time.Millisecond
	return svc, db
}

// seedMatch stores two players and a match between them.
func seedMatch(t *testing.T, db *gorm.DB, bestOf int, finalSet models.FinalSetFormat) *models.Match {
	t.Helper()
	a := models.Player{ID: "player-a", FirstName: "Carlos", LastName: "Alcaraz", Country: "ESP", SearchName: "carlos alcaraz"}
	b := models.Player{ID: "player-b", FirstName: "Jannik", LastName: "Sinner", Country: "ITA", SearchName: "jannik sinner"}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create([]*models.Player{&a, &b}).Error; err != nil {
		t.Fatalf("seed players: %v", err)
	}
	match := &models.Match{
		ID:          fmt.Sprintf("match-%d-%s", bestOf, finalSet),
		Slug:        "roland-garros-f-alcaraz-vs-sinner",
		Tournament:  "Roland Garros",
		Round:       "F",
		Surface:     "clay",
		ScheduledAt: testNow,
		PlayerAID:   a.ID,
		PlayerBID:   b.ID,
		BestOf:      bestOf,
		FinalSet:    finalSet,
	}
	if err := db.Omit(clause.Associations).Create(match).Error; err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return match
}

// openStarted opens a session for match and moves it in progress.
func openStarted(t *testing.T, svc *LiveScoringService, matchID string) string {
	t.Helper()
	ctx := context.Background()
	view, err := svc.OpenSession(ctx, matchID, nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if _, err := svc.SetStatus(ctx, view.Session.ID, models.StatusInProgress, "umpire"); err != nil {
		t.Fatalf("SetStatus(in-progress): %v", err)
	}
	return view.Session.ID
}

func point(t *testing.T, svc *LiveScoringService, sessionID string, s models.Side) *scoring.PointResult {
	t.Helper()
	res, err := svc.ApplyPoint(context.Background(), sessionID, scoring.PointInput{Side: &s, RecordedBy: "umpire"})
	if err != nil {
		t.Fatalf("ApplyPoint(%s): %v", s, err)
	}
	return res
}

// winGames plays n love games for s.
func winGames(t *testing.T, svc *LiveScoringService, sessionID string, s models.Side, n int) *scoring.PointResult {
	t.Helper()
	var res *scoring.PointResult
	for i := 0; i < n*4; i++ {
		res = point(t, svc, sessionID, s)
	}
	return res
}

func newTestApp(svc *LiveScoringService, matches *MatchService) *fiber.App {
	app := fiber.New()
	if matches != nil {
		app.Post("/players", matches.CreatePlayer)
		app.Get("/players", matches.SearchPlayers)
		app.Get("/players/:id", matches.GetPlayer)
		app.Post("/matches", matches.CreateMatch)
		app.Get("/matches", matches.ListMatches)
		app.Get("/matches/:id", matches.GetMatch)
	}
	if svc != nil {
		live := app.Group("/live-scoring", middleware.ScorerContext(""))
		live.Post("/sessions", svc.CreateSession)
		live.Get("/sessions", svc.ListSessions)
		live.Get("/sessions/:id", svc.GetSession)
		live.Patch("/sessions/:id/status", svc.UpdateSessionStatus)
		live.Get("/matches/:matchId/session", svc.GetMatchSession)
		live.Post("/sessions/:id/points", svc.RecordPoint)
		live.Get("/sessions/:id/points", svc.ListPoints)
		live.Get("/sessions/:id/events", svc.ListEvents)
		live.Post("/sessions/:id/replay", svc.ReplaySession)
	}
	return app
}
