package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
)

type LiveScoringService struct {
	DB *gorm.DB

	// StreamPollInterval is how often the SSE stream checks for new events.
	StreamPollInterval time.Duration

	opts  scoring.Options
	locks *sessionLocks
}

func NewLiveScoringService(db *gorm.DB) *LiveScoringService {
	return NewLiveScoringServiceWithOptions(db, scoring.Options{})
}

// NewLiveScoringServiceWithOptions injects the clock and id generator used
// by every engine the service builds.
func NewLiveScoringServiceWithOptions(db *gorm.DB, opts scoring.Options) *LiveScoringService {
	return &LiveScoringService{
		DB:                 db,
		StreamPollInterval: 2 * time.Second,
		opts:               opts,
		locks:              newSessionLocks(),
	}
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	models.LiveSession
	Tournament  string             `json:"tournament"`
	Round       string             `json:"round"`
	Surface     string             `json:"surface"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	PlayerA     scoring.PlayerView `json:"player_a"`
	PlayerB     scoring.PlayerView `json:"player_b"`
}

// command runs fn against the session's engine under the per-session lock
// and a single transaction, then persists whatever fn changed.
func (s *LiveScoringService) command(ctx context.Context, sessionID string, fn func(e *scoring.Engine, match *models.Match) error) (*scoring.Engine, *models.Match, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	var (
		engine *scoring.Engine
		match  *models.Match
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, m, err := loadEngine(tx, sessionID, true, s.opts)
		if err != nil {
			return err
		}
		if err := fn(e, m); err != nil {
			return err
		}
		cs := e.TakeChanges()
		if cs.Empty() {
			engine, match = e, m
			return nil
		}
		if err := persistChanges(tx, cs); err != nil {
			return err
		}
		if err := syncMatchResult(tx, e, m); err != nil {
			return err
		}
		engine, match = e, m
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return engine, match, nil
}

// syncMatchResult copies a decided winner onto the match record.
func syncMatchResult(tx *gorm.DB, e *scoring.Engine, match *models.Match) error {
	if e.Session().Status != models.StatusCompleted {
		return nil
	}
	winner := e.Winner()
	if winner == nil {
		return nil
	}
	if err := tx.Model(&models.Match{}).Where("id = ?", match.ID).Update("winner", *winner).Error; err != nil {
		return fmt.Errorf("update match winner: %w", err)
	}
	match.Winner = winner
	return nil
}

// OpenSession opens a scheduled session for matchID. Only one
// non-completed session may exist per match.
func (s *LiveScoringService) OpenSession(ctx context.Context, matchID string, firstServer *models.Side) (*scoring.MatchView, error) {
	if matchID == "" {
		return nil, scoring.Validationf("match_id is required")
	}
	unlock := s.locks.Lock("match:" + matchID)
	defer unlock()

	var (
		view    scoring.MatchView
		players string
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := findMatch(tx, matchID)
		if err != nil {
			return err
		}
		var active int64
		if err := tx.Model(&models.LiveSession{}).
			Where("match_id = ? AND status <> ?", matchID, models.StatusCompleted).
			Count(&active).Error; err != nil {
			return fmt.Errorf("check active sessions: %w", err)
		}
		if active > 0 {
			return scoring.Conflictf("an active session already exists for match %s", matchID)
		}

		e, err := scoring.NewSession(match, firstServer, s.opts)
		if err != nil {
			return err
		}
		if err := persistChanges(tx, e.TakeChanges()); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return scoring.Conflictf("an active session already exists for match %s", matchID)
			}
			return err
		}
		view = e.View(match)
		players = match.PlayerA.FullName() + " vs " + match.PlayerB.FullName()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[LIVE] ✅ Session %s created for match %s (%s)", view.Session.ID, matchID, players)
	return &view, nil
}

func (s *LiveScoringService) GetSessionView(ctx context.Context, sessionID string) (*scoring.MatchView, error) {
	e, match, err := loadEngine(s.DB.WithContext(ctx), sessionID, false, s.opts)
	if err != nil {
		return nil, err
	}
	view := e.View(match)
	return &view, nil
}

// GetSessionViewByMatch returns the match's active session, or its most
// recent one when every session is completed.
func (s *LiveScoringService) GetSessionViewByMatch(ctx context.Context, matchID string) (*scoring.MatchView, error) {
	var session models.LiveSession
	err := s.DB.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order(fmt.Sprintf("CASE WHEN status = '%s' THEN 1 ELSE 0 END", models.StatusCompleted)).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scoring.NotFoundf("no session for match %s", matchID)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.GetSessionView(ctx, session.ID)
}

func (s *LiveScoringService) FindSessions(ctx context.Context, status *models.SessionStatus) ([]SessionSummary, error) {
	var sessions []models.LiveSession
	q := s.DB.WithContext(ctx).Order("updated_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	matchIDs := make([]string, 0, len(sessions))
	for _, ls := range sessions {
		matchIDs = append(matchIDs, ls.MatchID)
	}
	matches := map[string]models.Match{}
	if len(matchIDs) > 0 {
		var rows []models.Match
		if err := s.DB.WithContext(ctx).Preload("PlayerA").Preload("PlayerB").
			Where("id IN ?", matchIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		for _, m := range rows {
			matches[m.ID] = m
		}
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, ls := range sessions {
		sum := SessionSummary{LiveSession: ls}
		if m, ok := matches[ls.MatchID]; ok {
			sum.Tournament = m.Tournament
			sum.Round = m.Round
			sum.Surface = m.Surface
			sum.ScheduledAt = m.ScheduledAt
			sum.PlayerA = scoring.PlayerViewOf(m.PlayerA, m.PlayerAID, m.PlayerASeed)
			sum.PlayerB = scoring.PlayerViewOf(m.PlayerB, m.PlayerBID, m.PlayerBSeed)
		}
		out = append(out, sum)
	}
	return out, nil
}

// SetStatus applies a lifecycle transition requested by scorer.
func (s *LiveScoringService) SetStatus(ctx context.Context, sessionID string, status models.SessionStatus, scorer string) (*models.LiveSession, error) {
	e, _, err := s.command(ctx, sessionID, func(e *scoring.Engine, _ *models.Match) error {
		return e.SetStatus(status, scorer)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[LIVE] Session %s is now %s", sessionID, e.Session().Status)
	return e.Session(), nil
}

// ApplyPoint applies one point and its whole cascade atomically.
func (s *LiveScoringService) ApplyPoint(ctx context.Context, sessionID string, in scoring.PointInput) (*scoring.PointResult, error) {
	var res *scoring.PointResult
	_, _, err := s.command(ctx, sessionID, func(e *scoring.Engine, _ *models.Match) error {
		var err error
		res, err = e.RecordPoint(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.MatchCompleted {
		log.Printf("[LIVE] 🏆 Session %s completed on point %d.%d.%d", sessionID, res.Point.SetNumber, res.Point.GameNumber, res.Point.PointNumber)
	}
	return res, nil
}

// PointLog returns the point log ordered by set, game and point number.
func (s *LiveScoringService) PointLog(ctx context.Context, sessionID string) ([]models.LivePoint, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findSession(db, sessionID, false); err != nil {
		return nil, err
	}
	var points []models.LivePoint
	if err := db.Where("session_id = ?", sessionID).
		Order("set_number, game_number, point_number").
		Find(&points).Error; err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	return points, nil
}

// Timeline returns the timeline entries with a sequence above after.
func (s *LiveScoringService) Timeline(ctx context.Context, sessionID string, after int64) ([]models.MatchEvent, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findSession(db, sessionID, false); err != nil {
		return nil, err
	}
	var events []models.MatchEvent
	if err := db.Where("session_id = ? AND sequence > ?", sessionID, after).
		Order("sequence").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Replay rebuilds the session from its point log and reports any drift
// from the stored state.
func (s *LiveScoringService) Replay(ctx context.Context, sessionID string) (*scoring.ReplayReport, error) {
	db := s.DB.WithContext(ctx)
	live, _, err := loadEngine(db, sessionID, false, s.opts)
	if err != nil {
		return nil, err
	}
	points, err := s.PointLog(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	first := live.Session().CurrentServer
	for _, g := range live.Games() {
		if g.SetNumber == 1 && g.GameNumber == 1 {
			first = g.Server
			break
		}
	}

	report := &scoring.ReplayReport{SessionID: sessionID, PointsReplayed: len(points)}
	replayed, err := scoring.Replay(live.Session().MatchID, live.Format(), first, points, s.opts)
	if err != nil {
		if scoring.KindOf(err) == "" {
			return nil, err
		}
		report.Differences = []string{err.Error()}
		return report, nil
	}
	report.Differences = scoring.Compare(live, replayed)
	report.Consistent = len(report.Differences) == 0
	if report.Differences == nil {
		report.Differences = []string{}
	}
	if !report.Consistent {
		log.Printf("[LIVE] ⚠️ Replay of session %s differs: %v", sessionID, report.Differences)
	}
	return report, nil
}
