package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
	"tennis-live-scoring/utils"
)

// MatchService is the local registry of players and matches. Most records
// arrive through the sync worker; these endpoints cover local use.
type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

type createPlayerRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Country    string  `json:"country"`
	ExternalID *string `json:"external_id"`
}

// CreatePlayer handles POST /players
func (s *MatchService) CreatePlayer(c *fiber.Ctx) error {
	var req createPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	player := models.Player{
		ID:         uuid.NewString(),
		ExternalID: req.ExternalID,
		FirstName:  utils.NormalizeName(req.FirstName),
		LastName:   utils.NormalizeName(req.LastName),
		Country:    strings.ToUpper(strings.TrimSpace(req.Country)),
	}
	if player.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "last_name is required"})
	}
	if len(player.Country) > 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "country must be a short code"})
	}
	player.SearchName = utils.SearchKey(player.FirstName, player.LastName)

	if err := s.DB.Create(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "player with this external_id already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create player"})
	}
	return c.Status(fiber.StatusCreated).JSON(player)
}

// SearchPlayers handles GET /players?q=&limit=
//
// Matching is accent-insensitive: "muller" finds "Müller".
func (s *MatchService) SearchPlayers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var players []models.Player
	db := s.DB.Model(&models.Player{}).Order("last_name, first_name").Limit(limit)

	// Apply search filter if query is provided
	if key := utils.SearchKey(query); key != "" {
		db = db.Where("search_name LIKE ?", "%"+key+"%")
	}

	if err := db.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}
	return c.JSON(players)
}

// GetPlayer handles GET /players/:id
func (s *MatchService) GetPlayer(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load player"})
	}
	return c.JSON(player)
}

type createMatchRequest struct {
	ExternalID  *string   `json:"external_id"`
	Tournament  string    `json:"tournament"`
	Round       string    `json:"round"`
	Surface     string    `json:"surface"`
	ScheduledAt time.Time `json:"scheduled_at"`
	PlayerAID   string    `json:"player_a_id"`
	PlayerBID   string    `json:"player_b_id"`
	PlayerASeed *int      `json:"player_a_seed"`
	PlayerBSeed *int      `json:"player_b_seed"`
	BestOf      int       `json:"best_of"`
	FinalSet    string    `json:"final_set"`
	TossWinner  string    `json:"toss_winner"`
}

// CreateMatch handles POST /matches
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Tournament) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tournament is required"})
	}
	if req.PlayerAID == "" || req.PlayerBID == "" || req.PlayerAID == req.PlayerBID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "two distinct players are required"})
	}

	finalSet, ok := models.ParseFinalSetFormat(req.FinalSet)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "final_set must be tiebreak, advantage or match-tiebreak"})
	}
	format := scoring.Format{BestOf: req.BestOf, FinalSet: finalSet}
	if format.BestOf == 0 {
		format.BestOf = scoring.DefaultFormat().BestOf
	}
	if err := format.Validate(); err != nil {
		return respondError(c, err)
	}
	var toss *models.Side
	if req.TossWinner != "" {
		side, ok := models.ParseSide(req.TossWinner)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "toss_winner must be A or B"})
		}
		toss = &side
	}

	var players []models.Player
	if err := s.DB.Where("id IN ?", []string{req.PlayerAID, req.PlayerBID}).Find(&players).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load players"})
	}
	byID := map[string]models.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	playerA, okA := byID[req.PlayerAID]
	playerB, okB := byID[req.PlayerBID]
	if !okA || !okB {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
	}

	match := models.Match{
		ID:          uuid.NewString(),
		ExternalID:  req.ExternalID,
		Tournament:  strings.TrimSpace(req.Tournament),
		Round:       strings.TrimSpace(req.Round),
		Surface:     strings.ToLower(strings.TrimSpace(req.Surface)),
		ScheduledAt: req.ScheduledAt,
		PlayerAID:   playerA.ID,
		PlayerBID:   playerB.ID,
		PlayerASeed: req.PlayerASeed,
		PlayerBSeed: req.PlayerBSeed,
		BestOf:      format.BestOf,
		FinalSet:    format.FinalSet,
		TossWinner:  toss,
	}
	match.Slug = utils.MatchSlug(match.Tournament, match.Round, playerA.LastName, playerB.LastName)

	if err := s.DB.Omit(clause.Associations).Create(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match with this external_id already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match"})
	}
	match.PlayerA, match.PlayerB = playerA, playerB
	return c.Status(fiber.StatusCreated).JSON(match)
}

// ListMatches handles GET /matches?tournament=
func (s *MatchService) ListMatches(c *fiber.Ctx) error {
	var matches []models.Match
	db := s.DB.Preload("PlayerA").Preload("PlayerB").Order("scheduled_at DESC")
	if t := strings.TrimSpace(c.Query("tournament")); t != "" {
		db = db.Where("LOWER(tournament) = ?", strings.ToLower(t))
	}
	if err := db.Find(&matches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list matches"})
	}
	return c.JSON(matches)
}

// GetMatch handles GET /matches/:id
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	match, err := findMatch(s.DB, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(match)
}
