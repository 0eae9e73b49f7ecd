package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
	"tennis-live-scoring/utils"
)

// SessionArchive is the document written for every finished session.
type SessionArchive struct {
	ArchivedAt time.Time           `json:"archived_at"`
	MatchSlug  string              `json:"match_slug"`
	View       scoring.MatchView   `json:"view"`
	Points     []models.LivePoint  `json:"points"`
	Events     []models.MatchEvent `json:"events"`
}

// ArchiveService exports completed sessions to object storage.
type ArchiveService struct {
	DB    *gorm.DB
	Live  *LiveScoringService
	Store utils.ObjectStore
	Now   func() time.Time
}

func NewArchiveService(db *gorm.DB, live *LiveScoringService, store utils.ObjectStore) *ArchiveService {
	return &ArchiveService{DB: db, Live: live, Store: store, Now: time.Now}
}

// ArchiveCompleted uploads every completed, not yet archived session and
// stamps archived_at. A failing session is logged and retried next run.
func (a *ArchiveService) ArchiveCompleted(ctx context.Context) (int, error) {
	var sessions []models.LiveSession
	err := a.DB.WithContext(ctx).
		Where("status = ? AND archived_at IS NULL", models.StatusCompleted).
		Order("ended_at").
		Limit(100).
		Find(&sessions).Error
	if err != nil {
		return 0, fmt.Errorf("find sessions to archive: %w", err)
	}

	archived := 0
	for _, session := range sessions {
		if err := a.archiveOne(ctx, session); err != nil {
			log.Printf("[ARCHIVE] ❌ Session %s: %v", session.ID, err)
			continue
		}
		archived++
	}
	return archived, nil
}

func (a *ArchiveService) archiveOne(ctx context.Context, session models.LiveSession) error {
	view, err := a.Live.GetSessionView(ctx, session.ID)
	if err != nil {
		return err
	}
	points, err := a.Live.PointLog(ctx, session.ID)
	if err != nil {
		return err
	}
	events, err := a.Live.Timeline(ctx, session.ID, 0)
	if err != nil {
		return err
	}

	var match models.Match
	if err := a.DB.WithContext(ctx).Select("id", "slug").First(&match, "id = ?", session.MatchID).Error; err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	now := a.Now().UTC()
	doc := SessionArchive{ArchivedAt: now, MatchSlug: match.Slug, View: *view, Points: points, Events: events}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	key := utils.ArchiveKey(match.Slug, session.ID)
	url, err := a.Store.Put(ctx, key, body, "application/json")
	if err != nil {
		return err
	}
	res := a.DB.WithContext(ctx).Model(&models.LiveSession{}).
		Where("id = ? AND archived_at IS NULL", session.ID).
		Update("archived_at", now)
	if res.Error != nil {
		return fmt.Errorf("stamp archived_at: %w", res.Error)
	}
	log.Printf("[ARCHIVE] ✅ Session %s archived to %s", session.ID, url)
	return nil
}
