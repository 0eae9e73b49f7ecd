package models

import "time"

// LiveSession is one live-tracking run over a Match. At most one
// non-completed session exists per match.
type LiveSession struct {
	ID               string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MatchID          string        `gorm:"not null;index;uniqueIndex:idx_live_sessions_active,where:status <> 'completed'" json:"match_id"`
	Status           SessionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CurrentSetNumber int           `gorm:"not null;default:1" json:"current_set"`
	CurrentServer    Side          `gorm:"type:varchar(1);not null" json:"current_server"`
	EventCount       int64         `gorm:"not null;default:0" json:"-"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	EndedAt          *time.Time    `json:"ended_at,omitempty"`
	ArchivedAt       *time.Time    `gorm:"index" json:"archived_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// LiveSet is one set of a session, numbered from 1.
type LiveSet struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID       string    `gorm:"not null;index" json:"session_id"`
	SetNumber       int       `gorm:"not null" json:"set_number"`
	GamesA          int       `gorm:"not null;default:0" json:"games_a"`
	GamesB          int       `gorm:"not null;default:0" json:"games_b"`
	IsTiebreak      bool      `gorm:"not null;default:false" json:"is_tiebreak"`
	TiebreakPointsA int       `gorm:"not null;default:0" json:"tiebreak_points_a"`
	TiebreakPointsB int       `gorm:"not null;default:0" json:"tiebreak_points_b"`
	Winner          *Side     `gorm:"type:varchar(1)" json:"winner,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Games returns the games won by side.
func (s *LiveSet) Games(side Side) int {
	if side == SideA {
		return s.GamesA
	}
	return s.GamesB
}

// LiveGame is one game of a set. Points are raw counts; tennis notation is
// a presentation concern.
type LiveGame struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SetID      string `gorm:"not null;index" json:"set_id"`
	SetNumber  int    `gorm:"not null" json:"set_number"`
	GameNumber int    `gorm:"not null" json:"game_number"`
	PointsA    int    `gorm:"not null;default:0" json:"points_a"`
	PointsB    int    `gorm:"not null;default:0" json:"points_b"`
	Server     Side   `gorm:"type:varchar(1);not null" json:"server"`
	// TiebreakTo is 0 for a regular game, otherwise the points a tiebreak is played to.
	TiebreakTo   int       `gorm:"not null;default:0" json:"tiebreak_to"`
	PointsPlayed int       `gorm:"not null;default:0" json:"points_played"`
	Winner       *Side     `gorm:"type:varchar(1)" json:"winner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Points returns the raw point count of side.
func (g *LiveGame) Points(side Side) int {
	if side == SideA {
		return g.PointsA
	}
	return g.PointsB
}

func (g *LiveGame) IsTiebreak() bool {
	return g.TiebreakTo > 0
}

// LivePoint is an immutable entry of the point-by-point log.
type LivePoint struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID   string      `gorm:"not null;index:idx_live_points_order,priority:1" json:"session_id"`
	SetNumber   int         `gorm:"not null;index:idx_live_points_order,priority:2" json:"set_number"`
	GameNumber  int         `gorm:"not null;index:idx_live_points_order,priority:3" json:"game_number"`
	PointNumber int         `gorm:"not null;index:idx_live_points_order,priority:4" json:"point_number"`
	GameID      string      `gorm:"not null;index" json:"game_id"`
	Server      Side        `gorm:"type:varchar(1);not null" json:"server"`
	Winner      *Side       `gorm:"type:varchar(1)" json:"winner"`
	ServeType   ServeType   `gorm:"type:varchar(8)" json:"serve_type,omitempty"`
	ServeResult ServeResult `gorm:"type:varchar(16)" json:"serve_result,omitempty"`
	Shot        ShotOutcome `gorm:"type:varchar(16)" json:"shot_outcome,omitempty"`
	ShotDetail  string      `json:"shot_detail,omitempty"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy  string      `json:"recorded_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MatchEvent is an append-only timeline entry. Sequence orders events within
// a session.
type MatchEvent struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID  string    `gorm:"not null;index:idx_match_events_seq,priority:1" json:"session_id"`
	Sequence   int64     `gorm:"not null;index:idx_match_events_seq,priority:2" json:"sequence"`
	Type       EventType `gorm:"type:varchar(24);not null" json:"type"`
	SetNumber  int       `json:"set_number,omitempty"`
	GameNumber int       `json:"game_number,omitempty"`
	Side       *Side     `gorm:"type:varchar(1)" json:"side,omitempty"`
	RecordedBy string    `json:"recorded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlayerSetStats holds running counters for one side in one set. Counters
// only ever increase.
type PlayerSetStats struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)" json:"-"`
	SessionID          string    `gorm:"not null;uniqueIndex:idx_player_set_stats_key,priority:1" json:"-"`
	SetNumber          int       `gorm:"not null;uniqueIndex:idx_player_set_stats_key,priority:2" json:"set_number"`
	Side               Side      `gorm:"type:varchar(1);not null;uniqueIndex:idx_player_set_stats_key,priority:3" json:"side"`
	Aces               int       `gorm:"not null;default:0" json:"aces"`
	DoubleFaults       int       `gorm:"not null;default:0" json:"double_faults"`
	FirstServeAttempts int       `gorm:"not null;default:0" json:"first_serve_attempts"`
	FirstServeWon      int       `gorm:"not null;default:0" json:"first_serve_won"`
	SecondServeWon     int       `gorm:"not null;default:0" json:"second_serve_won"`
	Winners            int       `gorm:"not null;default:0" json:"winners"`
	UnforcedErrors     int       `gorm:"not null;default:0" json:"unforced_errors"`
	BreakPointsWon     int       `gorm:"not null;default:0" json:"break_points_won"`
	BreakPointsFaced   int       `gorm:"not null;default:0" json:"break_points_faced"`
	TotalPointsWon     int       `gorm:"not null;default:0" json:"total_points_won"`
	TotalServes        int       `gorm:"not null;default:0" json:"total_serves"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}
