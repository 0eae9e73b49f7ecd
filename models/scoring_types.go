package models

import "strings"

// Side labels one of the two players for the duration of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// ParseSide accepts "A"/"B" in any case.
func ParseSide(raw string) (Side, bool) {
	s := Side(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// ServeType records which serve the point was played on.
type ServeType string

const (
	ServeTypeNone   ServeType = ""
	ServeTypeFirst  ServeType = "first"
	ServeTypeSecond ServeType = "second"
)

func ParseServeType(raw string) (ServeType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "n/a":
		return ServeTypeNone, true
	case "first":
		return ServeTypeFirst, true
	case "second":
		return ServeTypeSecond, true
	}
	return ServeTypeNone, false
}

// ServeResult records what happened on the serve.
type ServeResult string

const (
	ServeResultNone        ServeResult = ""
	ServeResultAce         ServeResult = "ace"
	ServeResultWon         ServeResult = "won"
	ServeResultError       ServeResult = "error"
	ServeResultDoubleFault ServeResult = "double-fault"
)

func ParseServeResult(raw string) (ServeResult, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "n/a":
		return ServeResultNone, true
	case "ace":
		return ServeResultAce, true
	case "won":
		return ServeResultWon, true
	case "error", "fault":
		return ServeResultError, true
	case "double-fault", "double_fault":
		return ServeResultDoubleFault, true
	}
	return ServeResultNone, false
}

// ShotOutcome tags how the rally ended.
type ShotOutcome string

const (
	ShotNone          ShotOutcome = ""
	ShotWinner        ShotOutcome = "winner-shot"
	ShotUnforcedError ShotOutcome = "unforced-error"
)

// ParseShotOutcome also accepts the short "winner"/"error" spellings used by
// scoring clients.
func ParseShotOutcome(raw string) (ShotOutcome, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return ShotNone, true
	case "winner", "winner-shot":
		return ShotWinner, true
	case "error", "unforced-error":
		return ShotUnforcedError, true
	}
	return ShotNone, false
}

// SessionStatus is the live-tracking lifecycle of a match.
type SessionStatus string

const (
	StatusScheduled  SessionStatus = "scheduled"
	StatusInProgress SessionStatus = "in-progress"
	StatusSuspended  SessionStatus = "suspended"
	StatusCompleted  SessionStatus = "completed"
)

func ParseSessionStatus(raw string) (SessionStatus, bool) {
	switch s := SessionStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusScheduled, StatusInProgress, StatusSuspended, StatusCompleted:
		return s, true
	}
	return "", false
}

// FinalSetFormat decides how a deciding set tied at 6-6 is played.
type FinalSetFormat string

const (
	// FinalSetTiebreak plays a regular 7-point tiebreak at 6-6.
	FinalSetTiebreak FinalSetFormat = "tiebreak"
	// FinalSetAdvantage plays on until one side leads by two games.
	FinalSetAdvantage FinalSetFormat = "advantage"
	// FinalSetMatchTiebreak replaces the deciding set with one 10-point tiebreak.
	FinalSetMatchTiebreak FinalSetFormat = "match-tiebreak"
)

func ParseFinalSetFormat(raw string) (FinalSetFormat, bool) {
	switch f := FinalSetFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FinalSetTiebreak, true
	case FinalSetTiebreak, FinalSetAdvantage, FinalSetMatchTiebreak:
		return f, true
	}
	return "", false
}

// EventType names a timeline entry.
type EventType string

const (
	EventMatchStart    EventType = "match-start"
	EventSetStart      EventType = "set-start"
	EventGameStart     EventType = "game-start"
	EventGameWon       EventType = "game-won"
	EventTiebreakStart EventType = "tiebreak-start"
	EventSetWon        EventType = "set-won"
	EventMatchEnd      EventType = "match-end"
	EventSuspension    EventType = "suspension"
	EventResumption    EventType = "resumption"
)
