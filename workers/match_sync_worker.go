// workers/match_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
	"tennis-live-scoring/utils"
)

// RegistryPlayer is a player as served by the match registry.
type RegistryPlayer struct {
	ExternalID string    `json:"external_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Country    string    `json:"country"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegistryMatch is a match as served by the match registry. Players are
// referenced by their registry ids.
type RegistryMatch struct {
	ExternalID        string    `json:"external_id"`
	Tournament        string    `json:"tournament"`
	Round             string    `json:"round"`
	Surface           string    `json:"surface"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	PlayerAExternalID string    `json:"player_a_external_id"`
	PlayerBExternalID string    `json:"player_b_external_id"`
	PlayerASeed       *int      `json:"player_a_seed,omitempty"`
	PlayerBSeed       *int      `json:"player_b_seed,omitempty"`
	BestOf            int       `json:"best_of"`
	FinalSet          string    `json:"final_set"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetMatchChangesResponse is the top-level structure of the registry response.
type GetMatchChangesResponse struct {
	Players []RegistryPlayer `json:"players"`
	Matches []RegistryMatch  `json:"matches"`
}

// SyncResult counts what one batch did.
type SyncResult struct {
	Players int
	Matches int
	Errors  int
}

type MatchSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g. "http://localhost:8500"
	endpointPath string
	serviceToken string
	httpClient   *http.Client

	mu    sync.Mutex
	since time.Time
}

func NewMatchSyncWorker(db *gorm.DB, baseURL, serviceToken string, interval time.Duration) *MatchSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MatchSyncWorker{
		db:           db,
		interval:     interval,
		baseURL:      baseURL,
		endpointPath: "/api/v1/public/matches",
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *MatchSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Match Sync Worker (registry → players, matches)…")
	go w.run(ctx)
}

func (w *MatchSyncWorker) run(ctx context.Context) {
	// Initial sync backfills everything.
	if _, err := w.SyncOnce(ctx); err != nil {
		log.Printf("⚠️ Initial match sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				log.Printf("❌ Match sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Match Sync Worker stopped")
			return
		}
	}
}

// SyncOnce fetches changes since the last successful batch and upserts them.
// The cursor only advances when the whole response was processed.
func (w *MatchSyncWorker) SyncOnce(ctx context.Context) (SyncResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	resp, err := w.fetch(ctx, w.since)
	if err != nil {
		return SyncResult{}, err
	}
	if len(resp.Players) == 0 && len(resp.Matches) == 0 {
		log.Printf("[SYNC] ✅ No match changes since %s", w.since.UTC().Format(time.RFC3339))
		return SyncResult{}, nil
	}

	res := w.apply(ctx, resp)
	if res.Errors == 0 {
		w.since = latestUpdate(resp)
	}
	log.Printf("[SYNC] ✅ Synced %d player(s), %d match(es), %d error(s)", res.Players, res.Matches, res.Errors)
	return res, nil
}

func (w *MatchSyncWorker) fetch(ctx context.Context, since time.Time) (*GetMatchChangesResponse, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid match registry URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	log.Printf("[SYNC] ➡️  GET %s", finalURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to match registry failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("match registry returned status %d: %s", resp.StatusCode, string(body))
	}

	var out GetMatchChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode match registry response: %w", err)
	}
	return &out, nil
}

func (w *MatchSyncWorker) apply(ctx context.Context, resp *GetMatchChangesResponse) SyncResult {
	var res SyncResult
	db := w.db.WithContext(ctx)

	for _, rp := range resp.Players {
		if rp.ExternalID == "" || strings.TrimSpace(rp.LastName) == "" {
			res.Errors++
			log.Printf("[SYNC] ⚠️ Skipping player without external_id or last_name: %+v", rp)
			continue
		}
		if err := upsertPlayer(db, rp); err != nil {
			res.Errors++
			log.Printf("[SYNC] ⚠️ Failed to upsert player (external_id=%q): %v", rp.ExternalID, err)
			continue
		}
		res.Players++
	}

	for _, rm := range resp.Matches {
		if err := upsertMatch(db, rm); err != nil {
			res.Errors++
			log.Printf("[SYNC] ⚠️ Failed to upsert match (external_id=%q): %v", rm.ExternalID, err)
			continue
		}
		res.Matches++
	}
	return res
}

func upsertPlayer(db *gorm.DB, rp RegistryPlayer) error {
	ext := rp.ExternalID
	player := models.Player{
		ID:         uuid.NewString(),
		ExternalID: &ext,
		FirstName:  utils.NormalizeName(rp.FirstName),
		LastName:   utils.NormalizeName(rp.LastName),
		Country:    strings.ToUpper(strings.TrimSpace(rp.Country)),
	}
	player.SearchName = utils.SearchKey(player.FirstName, player.LastName)

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "country", "search_name", "updated_at"}),
	}).Create(&player).Error
}

func upsertMatch(db *gorm.DB, rm RegistryMatch) error {
	if rm.ExternalID == "" || strings.TrimSpace(rm.Tournament) == "" {
		return fmt.Errorf("external_id and tournament are required")
	}
	if rm.PlayerAExternalID == "" || rm.PlayerAExternalID == rm.PlayerBExternalID {
		return fmt.Errorf("two distinct players are required")
	}
	finalSet, ok := models.ParseFinalSetFormat(rm.FinalSet)
	if !ok {
		return fmt.Errorf("unknown final_set %q", rm.FinalSet)
	}
	format := scoring.Format{BestOf: rm.BestOf, FinalSet: finalSet}
	if format.BestOf == 0 {
		format.BestOf = scoring.DefaultFormat().BestOf
	}
	if err := format.Validate(); err != nil {
		return err
	}

	var players []models.Player
	if err := db.Where("external_id IN ?", []string{rm.PlayerAExternalID, rm.PlayerBExternalID}).Find(&players).Error; err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	byExt := map[string]models.Player{}
	for _, p := range players {
		byExt[*p.ExternalID] = p
	}
	playerA, okA := byExt[rm.PlayerAExternalID]
	playerB, okB := byExt[rm.PlayerBExternalID]
	if !okA || !okB {
		return fmt.Errorf("players %q/%q not synced yet", rm.PlayerAExternalID, rm.PlayerBExternalID)
	}

	ext := rm.ExternalID
	match := models.Match{
		ID:          uuid.NewString(),
		ExternalID:  &ext,
		Tournament:  strings.TrimSpace(rm.Tournament),
		Round:       strings.TrimSpace(rm.Round),
		Surface:     strings.ToLower(strings.TrimSpace(rm.Surface)),
		ScheduledAt: rm.ScheduledAt,
		PlayerAID:   playerA.ID,
		PlayerBID:   playerB.ID,
		PlayerASeed: rm.PlayerASeed,
		PlayerBSeed: rm.PlayerBSeed,
		BestOf:      format.BestOf,
		FinalSet:    format.FinalSet,
	}
	match.Slug = utils.MatchSlug(match.Tournament, match.Round, playerA.LastName, playerB.LastName)

	return db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"slug", "tournament", "round", "surface", "scheduled_at",
			"player_a_id", "player_b_id", "player_a_seed", "player_b_seed",
			"best_of", "final_set", "updated_at",
		}),
	}).Create(&match).Error
}

func latestUpdate(resp *GetMatchChangesResponse) time.Time {
	var latest time.Time
	for _, p := range resp.Players {
		if p.UpdatedAt.After(latest) {
			latest = p.UpdatedAt
		}
	}
	for _, m := range resp.Matches {
		if m.UpdatedAt.After(latest) {
			latest = m.UpdatedAt
		}
	}
	return latest
}
