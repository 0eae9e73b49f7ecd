package services

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
)

// sessionLocks serialises commands per session inside this process.
// Entries are dropped once no command holds or waits for them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until id is free and returns the matching unlock func.
func (l *sessionLocks) Lock(id string) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &sessionLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// forUpdate adds a row lock on databases that support one. SQLite already
// serialises writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func findSession(tx *gorm.DB, id string, lock bool) (*models.LiveSession, error) {
	q := tx
	if lock {
		q = forUpdate(tx)
	}
	var session models.LiveSession
	if err := q.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scoring.NotFoundf("session %s not found", id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &session, nil
}

func findMatch(tx *gorm.DB, id string) (*models.Match, error) {
	var match models.Match
	err := tx.Preload("PlayerA").Preload("PlayerB").First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scoring.NotFoundf("match %s not found", id)
		}
		return nil, fmt.Errorf("load match: %w", err)
	}
	return &match, nil
}

// loadEngine reads a session with its sets, games and stats and rebuilds
// the engine over them.
func loadEngine(tx *gorm.DB, id string, lock bool, opts scoring.Options) (*scoring.Engine, *models.Match, error) {
	session, err := findSession(tx, id, lock)
	if err != nil {
		return nil, nil, err
	}
	match, err := findMatch(tx, session.MatchID)
	if err != nil {
		return nil, nil, err
	}
	format, err := scoring.FormatOf(match)
	if err != nil {
		return nil, nil, err
	}

	var sets []*models.LiveSet
	if err := tx.Where("session_id = ?", id).Order("set_number").Find(&sets).Error; err != nil {
		return nil, nil, fmt.Errorf("load sets: %w", err)
	}
	setIDs := make([]string, 0, len(sets))
	for _, s := range sets {
		setIDs = append(setIDs, s.ID)
	}
	var games []*models.LiveGame
	if len(setIDs) > 0 {
		if err := tx.Where("set_id IN ?", setIDs).Order("set_number, game_number").Find(&games).Error; err != nil {
			return nil, nil, fmt.Errorf("load games: %w", err)
		}
	}
	var stats []*models.PlayerSetStats
	if err := tx.Where("session_id = ?", id).Find(&stats).Error; err != nil {
		return nil, nil, fmt.Errorf("load stats: %w", err)
	}

	e, err := scoring.Load(scoring.Snapshot{
		Session: session,
		Format:  format,
		Sets:    sets,
		Games:   games,
		Stats:   stats,
	}, opts)
	if err != nil {
		return nil, nil, err
	}
	return e, match, nil
}

// persistChanges writes one command's change set. Callers run it inside
// the command's transaction.
func persistChanges(tx *gorm.DB, cs *scoring.ChangeSet) error {
	if cs.Session != nil {
		if err := upsert(tx, cs.IsNew(cs.Session.ID), cs.Session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	for _, s := range cs.Sets {
		if err := upsert(tx, cs.IsNew(s.ID), s); err != nil {
			return fmt.Errorf("save set %d: %w", s.SetNumber, err)
		}
	}
	for _, g := range cs.Games {
		if err := upsert(tx, cs.IsNew(g.ID), g); err != nil {
			return fmt.Errorf("save game %d.%d: %w", g.SetNumber, g.GameNumber, err)
		}
	}
	for _, st := range cs.Stats {
		if err := upsert(tx, cs.IsNew(st.ID), st); err != nil {
			return fmt.Errorf("save stats set %d side %s: %w", st.SetNumber, st.Side, err)
		}
	}
	if len(cs.Points) > 0 {
		if err := tx.Create(cs.Points).Error; err != nil {
			return fmt.Errorf("append points: %w", err)
		}
	}
	if len(cs.Events) > 0 {
		if err := tx.Create(cs.Events).Error; err != nil {
			return fmt.Errorf("append events: %w", err)
		}
	}
	return nil
}

func upsert(tx *gorm.DB, isNew bool, value interface{}) error {
	if isNew {
		return tx.Create(value).Error
	}
	return tx.Save(value).Error
}
