package services

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tennis-live-scoring/middleware"
	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
)

// respondError maps scoring errors onto HTTP statuses. Anything else is a
// 500 and gets logged.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch scoring.KindOf(err) {
	case scoring.KindValidation:
		status = fiber.StatusBadRequest
	case scoring.KindNotFound:
		status = fiber.StatusNotFound
	case scoring.KindConflict:
		status = fiber.StatusConflict
	case scoring.KindInvalidState:
		status = fiber.StatusUnprocessableEntity
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("[LIVE] ❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type createSessionRequest struct {
	MatchID     string `json:"match_id"`
	FirstServer string `json:"first_server"`
}

// CreateSession handles POST /live-scoring/sessions
func (s *LiveScoringService) CreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	var firstServer *models.Side
	if req.FirstServer != "" {
		side, ok := models.ParseSide(req.FirstServer)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "first_server must be A or B"})
		}
		firstServer = &side
	}

	view, err := s.OpenSession(c.UserContext(), req.MatchID, firstServer)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// ListSessions handles GET /live-scoring/sessions?status=
func (s *LiveScoringService) ListSessions(c *fiber.Ctx) error {
	var status *models.SessionStatus
	if raw := c.Query("status"); raw != "" {
		st, ok := models.ParseSessionStatus(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
		}
		status = &st
	}
	sessions, err := s.FindSessions(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessions)
}

// GetSession handles GET /live-scoring/sessions/:id
func (s *LiveScoringService) GetSession(c *fiber.Ctx) error {
	view, err := s.GetSessionView(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetMatchSession handles GET /live-scoring/matches/:matchId/session
func (s *LiveScoringService) GetMatchSession(c *fiber.Ctx) error {
	view, err := s.GetSessionViewByMatch(c.UserContext(), c.Params("matchId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// UpdateSessionStatus handles PATCH /live-scoring/sessions/:id/status
func (s *LiveScoringService) UpdateSessionStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	status, ok := models.ParseSessionStatus(req.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}
	session, err := s.SetStatus(c.UserContext(), c.Params("id"), status, middleware.ScorerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

type recordPointRequest struct {
	Side        string `json:"side"`
	Winner      string `json:"winner"`
	ServeType   string `json:"serve_type"`
	ServeResult string `json:"serve_result"`
	ShotOutcome string `json:"shot_outcome"`
	WinnerShot  string `json:"winner_shot"`
	Shot        string `json:"shot"`
	Notes       string `json:"notes"`
}

// toInput validates every enum once at the boundary.
func (r recordPointRequest) toInput() (scoring.PointInput, error) {
	var in scoring.PointInput
	rawSide := r.Side
	if rawSide == "" {
		rawSide = r.Winner
	}
	if rawSide != "" {
		side, ok := models.ParseSide(rawSide)
		if !ok {
			return in, scoring.Validationf("side must be A or B")
		}
		in.Side = &side
	}
	var ok bool
	if in.ServeType, ok = models.ParseServeType(r.ServeType); !ok {
		return in, scoring.Validationf("invalid serve_type %q", r.ServeType)
	}
	if in.ServeResult, ok = models.ParseServeResult(r.ServeResult); !ok {
		return in, scoring.Validationf("invalid serve_result %q", r.ServeResult)
	}
	rawShot := r.ShotOutcome
	if rawShot == "" {
		rawShot = r.WinnerShot
	}
	if in.Shot, ok = models.ParseShotOutcome(rawShot); !ok {
		return in, scoring.Validationf("invalid shot_outcome %q", rawShot)
	}
	in.ShotDetail = r.Shot
	in.Notes = r.Notes
	return in, nil
}

// RecordPoint handles POST /live-scoring/sessions/:id/points
func (s *LiveScoringService) RecordPoint(c *fiber.Ctx) error {
	var req recordPointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	in, err := req.toInput()
	if err != nil {
		return respondError(c, err)
	}
	in.RecordedBy = middleware.ScorerID(c)

	res, err := s.ApplyPoint(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListPoints handles GET /live-scoring/sessions/:id/points
func (s *LiveScoringService) ListPoints(c *fiber.Ctx) error {
	points, err := s.PointLog(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(points)
}

// ListEvents handles GET /live-scoring/sessions/:id/events?after=
func (s *LiveScoringService) ListEvents(c *fiber.Ctx) error {
	after, err := strconv.ParseInt(c.Query("after", "0"), 10, 64)
	if err != nil || after < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "after must be a non-negative sequence number"})
	}
	events, err := s.Timeline(c.UserContext(), c.Params("id"), after)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// ReplaySession handles POST /live-scoring/sessions/:id/replay
func (s *LiveScoringService) ReplaySession(c *fiber.Ctx) error {
	report, err := s.Replay(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
