package scoring

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"tennis-live-scoring/models"
)

// Options carries the collaborators an engine needs. Zero fields fall back
// to the wall clock and random UUIDs.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Snapshot is the persisted state of one session, as loaded from storage.
type Snapshot struct {
	Session *models.LiveSession
	Format  Format
	Sets    []*models.LiveSet
	Games   []*models.LiveGame
	Stats   []*models.PlayerSetStats
}

type statsKey struct {
	set  int
	side models.Side
}

// Engine owns the in-memory aggregate of one live session. It is not safe
// for concurrent use; callers serialise commands per session.
type Engine struct {
	now   func() time.Time
	newID func() string

	format  Format
	session *models.LiveSession
	sets    []*models.LiveSet
	games   []*models.LiveGame
	stats   map[statsKey]*models.PlayerSetStats

	changes *ChangeSet
}

// NewSession opens a scheduled session for match with its first set and
// first game already in place. firstServer overrides the match's toss
// winner; with neither, A serves first.
func NewSession(match *models.Match, firstServer *models.Side, opts Options) (*Engine, error) {
	if match == nil || match.ID == "" {
		return nil, Validationf("match is required")
	}
	format, err := FormatOf(match)
	if err != nil {
		return nil, err
	}
	server := models.SideA
	switch {
	case firstServer != nil:
		if !firstServer.Valid() {
			return nil, Validationf("first server must be A or B")
		}
		server = *firstServer
	case match.TossWinner != nil && match.TossWinner.Valid():
		server = *match.TossWinner
	}
	return newEngine(match.ID, format, server, opts), nil
}

func newEngine(matchID string, format Format, server models.Side, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		now:     opts.Now,
		newID:   opts.NewID,
		format:  format,
		stats:   make(map[statsKey]*models.PlayerSetStats),
		changes: newChangeSet(),
	}
	e.session = &models.LiveSession{
		ID:               e.newID(),
		MatchID:          matchID,
		Status:           models.StatusScheduled,
		CurrentSetNumber: 1,
		CurrentServer:    server,
	}
	e.changes.Session = e.session
	e.changes.created[e.session.ID] = true

	set := e.openSet(1)
	e.openGame(set, server)
	return e
}

// Load rebuilds an engine from a stored snapshot.
func Load(snap Snapshot, opts Options) (*Engine, error) {
	if snap.Session == nil {
		return nil, NotFoundf("session not found")
	}
	if err := snap.Format.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	e := &Engine{
		now:     opts.Now,
		newID:   opts.NewID,
		format:  snap.Format,
		session: snap.Session,
		sets:    append([]*models.LiveSet(nil), snap.Sets...),
		games:   append([]*models.LiveGame(nil), snap.Games...),
		stats:   make(map[statsKey]*models.PlayerSetStats, len(snap.Stats)),
		changes: newChangeSet(),
	}
	sort.Slice(e.sets, func(i, j int) bool { return e.sets[i].SetNumber < e.sets[j].SetNumber })
	sort.Slice(e.games, func(i, j int) bool {
		if e.games[i].SetNumber != e.games[j].SetNumber {
			return e.games[i].SetNumber < e.games[j].SetNumber
		}
		return e.games[i].GameNumber < e.games[j].GameNumber
	})
	for _, st := range snap.Stats {
		e.stats[statsKey{st.SetNumber, st.Side}] = st
	}
	return e, nil
}

func (e *Engine) Session() *models.LiveSession {
	return e.session
}

func (e *Engine) Format() Format {
	return e.format
}

// Sets returns the sets in play order.
func (e *Engine) Sets() []*models.LiveSet {
	return e.sets
}

// Games returns every game ordered by set then game number.
func (e *Engine) Games() []*models.LiveGame {
	return e.games
}

// Stats returns every counter row ordered by set then side.
func (e *Engine) Stats() []*models.PlayerSetStats {
	out := make([]*models.PlayerSetStats, 0, len(e.stats))
	for _, st := range e.stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SetNumber != out[j].SetNumber {
			return out[i].SetNumber < out[j].SetNumber
		}
		return out[i].Side < out[j].Side
	})
	return out
}

// TakeChanges returns everything mutated since the last call and starts a
// fresh change set.
func (e *Engine) TakeChanges() *ChangeSet {
	c := e.changes
	e.changes = newChangeSet()
	return c
}

// ActiveSet is the undecided set with the current set number.
func (e *Engine) ActiveSet() *models.LiveSet {
	for _, s := range e.sets {
		if s.SetNumber == e.session.CurrentSetNumber && s.Winner == nil {
			return s
		}
	}
	return nil
}

// ActiveGame is the undecided game of the active set.
func (e *Engine) ActiveGame() *models.LiveGame {
	set := e.ActiveSet()
	if set == nil {
		return nil
	}
	for i := len(e.games) - 1; i >= 0; i-- {
		g := e.games[i]
		if g.SetNumber == set.SetNumber && g.Winner == nil {
			return g
		}
	}
	return nil
}

// SetsWon counts the decided sets of side.
func (e *Engine) SetsWon(side models.Side) int {
	n := 0
	for _, s := range e.sets {
		if s.Winner != nil && *s.Winner == side {
			n++
		}
	}
	return n
}

// Winner is the side holding a majority of sets, if any.
func (e *Engine) Winner() *models.Side {
	for _, side := range []models.Side{models.SideA, models.SideB} {
		if e.SetsWon(side) >= e.format.SetsToWin() {
			w := side
			return &w
		}
	}
	return nil
}

// Start moves a scheduled session into play.
func (e *Engine) Start(by string) error {
	if e.session.Status != models.StatusScheduled {
		return Conflictf("cannot start a session that is %s", e.session.Status)
	}
	now := e.now()
	e.session.Status = models.StatusInProgress
	e.session.StartedAt = &now
	e.touchSession()

	e.emit(models.EventMatchStart, 0, 0, nil, by)
	e.emit(models.EventSetStart, e.session.CurrentSetNumber, 0, nil, by)
	if g := e.ActiveGame(); g != nil {
		e.emit(models.EventGameStart, g.SetNumber, g.GameNumber, &g.Server, by)
	}
	return nil
}

func (e *Engine) Suspend(by string) error {
	if e.session.Status != models.StatusInProgress {
		return Conflictf("cannot suspend a session that is %s", e.session.Status)
	}
	e.session.Status = models.StatusSuspended
	e.touchSession()
	e.emit(models.EventSuspension, e.session.CurrentSetNumber, e.activeGameNumber(), nil, by)
	return nil
}

func (e *Engine) Resume(by string) error {
	if e.session.Status != models.StatusSuspended {
		return Conflictf("cannot resume a session that is %s", e.session.Status)
	}
	e.session.Status = models.StatusInProgress
	e.touchSession()
	e.emit(models.EventResumption, e.session.CurrentSetNumber, e.activeGameNumber(), nil, by)
	return nil
}

// Complete ends the session early, e.g. on retirement. Matches decided on
// court complete on their own.
func (e *Engine) Complete(by string) error {
	switch e.session.Status {
	case models.StatusInProgress, models.StatusSuspended:
	default:
		return Conflictf("cannot complete a session that is %s", e.session.Status)
	}
	e.finish(by)
	return nil
}

// SetStatus maps a requested status onto the lifecycle command that
// reaches it.
func (e *Engine) SetStatus(target models.SessionStatus, by string) error {
	switch target {
	case models.StatusInProgress:
		if e.session.Status == models.StatusSuspended {
			return e.Resume(by)
		}
		return e.Start(by)
	case models.StatusSuspended:
		return e.Suspend(by)
	case models.StatusCompleted:
		return e.Complete(by)
	case models.StatusScheduled:
		return Conflictf("cannot move a session back to scheduled")
	}
	return Validationf("invalid status %q", target)
}

// PointInput is one point as submitted by a scorer, already parsed into
// closed enums.
type PointInput struct {
	Side        *models.Side
	ServeType   models.ServeType
	ServeResult models.ServeResult
	Shot        models.ShotOutcome
	ShotDetail  string
	Notes       string
	RecordedBy  string
}

// PointResult describes what a recorded point changed.
type PointResult struct {
	Point          *models.LivePoint  `json:"point"`
	Game           models.LiveGame    `json:"game"`
	GameCompleted  bool               `json:"game_completed"`
	SetCompleted   bool               `json:"set_completed"`
	MatchCompleted bool               `json:"match_completed"`
	Session        models.LiveSession `json:"session"`
}

// RecordPoint logs one point and cascades its effect through game, set and
// match. A rejected point leaves the engine untouched.
func (e *Engine) RecordPoint(in PointInput) (*PointResult, error) {
	if e.session.Status != models.StatusInProgress {
		return nil, InvalidStatef("points can only be recorded while in progress, session is %s", e.session.Status)
	}
	set := e.ActiveSet()
	game := e.ActiveGame()
	if set == nil || game == nil {
		return nil, NotFoundf("no active game in set %d", e.session.CurrentSetNumber)
	}
	winner, err := Resolve(game.Server, in.Side, in.ServeType, in.ServeResult)
	if err != nil {
		return nil, err
	}

	breakPoint := IsBreakPoint(game)
	game.PointsPlayed++
	point := &models.LivePoint{
		ID:          e.newID(),
		SessionID:   e.session.ID,
		SetNumber:   set.SetNumber,
		GameNumber:  game.GameNumber,
		PointNumber: game.PointsPlayed,
		GameID:      game.ID,
		Server:      game.Server,
		Winner:      winner,
		ServeType:   in.ServeType,
		ServeResult: in.ServeResult,
		Shot:        in.Shot,
		ShotDetail:  in.ShotDetail,
		Notes:       in.Notes,
		RecordedBy:  in.RecordedBy,
		CreatedAt:   e.now(),
	}
	e.changes.Points = append(e.changes.Points, point)
	e.touchGame(game)

	RecordPointStats(e.rowsFor(set.SetNumber), PointFacts{
		Server:      game.Server,
		Winner:      winner,
		ServeType:   in.ServeType,
		ServeResult: in.ServeResult,
		Shot:        in.Shot,
		BreakPoint:  breakPoint,
	})

	res := &PointResult{Point: point}
	if winner == nil {
		res.Game = *game
		res.Session = *e.session
		return res, nil
	}

	outcome, err := ApplyPoint(game, *winner)
	if err != nil {
		return nil, err
	}
	if game.IsTiebreak() {
		set.TiebreakPointsA, set.TiebreakPointsB = game.PointsA, game.PointsB
		e.touchSet(set)
	}
	res.Game = *game
	if outcome.Completed {
		res.GameCompleted = true
		res.SetCompleted, res.MatchCompleted, err = e.concludeGame(set, game, outcome.Winner, in.RecordedBy)
		if err != nil {
			return nil, err
		}
	}
	res.Session = *e.session
	return res, nil
}

func (e *Engine) concludeGame(set *models.LiveSet, game *models.LiveGame, winner models.Side, by string) (setDone, matchDone bool, err error) {
	e.emit(models.EventGameWon, set.SetNumber, game.GameNumber, &winner, by)

	outcome, err := ApplyGameResult(set, winner, e.format.TiebreakAtSixAll(set.SetNumber))
	if err != nil {
		return false, false, err
	}
	e.touchSet(set)
	next := game.Server.Opponent()

	if !outcome.Completed {
		if outcome.TiebreakStarted {
			e.emit(models.EventTiebreakStart, set.SetNumber, game.GameNumber+1, nil, by)
		}
		g := e.openGame(set, next)
		e.emit(models.EventGameStart, g.SetNumber, g.GameNumber, &g.Server, by)
		return false, false, nil
	}

	e.emit(models.EventSetWon, set.SetNumber, game.GameNumber, &winner, by)
	if e.Winner() != nil {
		e.finish(by)
		return true, true, nil
	}

	ns := e.openSet(set.SetNumber + 1)
	e.session.CurrentSetNumber = ns.SetNumber
	e.emit(models.EventSetStart, ns.SetNumber, 0, nil, by)
	if ns.IsTiebreak {
		e.emit(models.EventTiebreakStart, ns.SetNumber, 1, nil, by)
	}
	g := e.openGame(ns, next)
	e.emit(models.EventGameStart, g.SetNumber, g.GameNumber, &g.Server, by)
	return true, false, nil
}

func (e *Engine) finish(by string) {
	now := e.now()
	e.session.Status = models.StatusCompleted
	e.session.EndedAt = &now
	e.touchSession()
	e.emit(models.EventMatchEnd, e.session.CurrentSetNumber, 0, e.Winner(), by)
}

func (e *Engine) openSet(number int) *models.LiveSet {
	set := &models.LiveSet{
		ID:         e.newID(),
		SessionID:  e.session.ID,
		SetNumber:  number,
		IsTiebreak: e.format.MatchTiebreak(number),
	}
	e.sets = append(e.sets, set)
	e.changes.created[set.ID] = true
	e.touchSet(set)
	return set
}

func (e *Engine) openGame(set *models.LiveSet, server models.Side) *models.LiveGame {
	number := 1
	for _, g := range e.games {
		if g.SetNumber == set.SetNumber && g.GameNumber >= number {
			number = g.GameNumber + 1
		}
	}
	game := &models.LiveGame{
		ID:         e.newID(),
		SetID:      set.ID,
		SetNumber:  set.SetNumber,
		GameNumber: number,
		Server:     server,
	}
	if set.IsTiebreak {
		game.TiebreakTo = TiebreakPoints
		if e.format.MatchTiebreak(set.SetNumber) {
			game.TiebreakTo = MatchTiebreakPoints
		}
	}
	e.games = append(e.games, game)
	e.session.CurrentServer = server
	e.touchSession()
	e.changes.created[game.ID] = true
	e.touchGame(game)
	return game
}

func (e *Engine) activeGameNumber() int {
	if g := e.ActiveGame(); g != nil {
		return g.GameNumber
	}
	return 0
}

func (e *Engine) emit(typ models.EventType, setNumber, gameNumber int, side *models.Side, by string) {
	e.session.EventCount++
	e.touchSession()
	var s *models.Side
	if side != nil {
		v := *side
		s = &v
	}
	e.changes.Events = append(e.changes.Events, &models.MatchEvent{
		ID:         e.newID(),
		SessionID:  e.session.ID,
		Sequence:   e.session.EventCount,
		Type:       typ,
		SetNumber:  setNumber,
		GameNumber: gameNumber,
		Side:       s,
		RecordedBy: by,
		CreatedAt:  e.now(),
	})
}

func (e *Engine) touchSession() {
	e.changes.Session = e.session
}

func (e *Engine) touchSet(s *models.LiveSet) {
	if e.changes.see(s.ID) {
		e.changes.Sets = append(e.changes.Sets, s)
	}
}

func (e *Engine) touchGame(g *models.LiveGame) {
	if e.changes.see(g.ID) {
		e.changes.Games = append(e.changes.Games, g)
	}
}

type engineRows struct {
	e   *Engine
	set int
}

func (r engineRows) Row(side models.Side) *models.PlayerSetStats {
	key := statsKey{r.set, side}
	st, ok := r.e.stats[key]
	if !ok {
		st = &models.PlayerSetStats{
			ID:        r.e.newID(),
			SessionID: r.e.session.ID,
			SetNumber: r.set,
			Side:      side,
		}
		r.e.stats[key] = st
		r.e.changes.created[st.ID] = true
	}
	if r.e.changes.see(st.ID) {
		r.e.changes.Stats = append(r.e.changes.Stats, st)
	}
	return st
}

func (e *Engine) rowsFor(setNumber int) StatsRows {
	return engineRows{e: e, set: setNumber}
}

// ChangeSet lists every entity a command created or modified, in the order
// they were first touched. Points and events are always new.
type ChangeSet struct {
	Session *models.LiveSession
	Sets    []*models.LiveSet
	Games   []*models.LiveGame
	Stats   []*models.PlayerSetStats
	Points  []*models.LivePoint
	Events  []*models.MatchEvent

	created map[string]bool
	seen    map[string]bool
}

func newChangeSet() *ChangeSet {
	return &ChangeSet{created: make(map[string]bool), seen: make(map[string]bool)}
}

// IsNew reports whether the entity with id was created by this change set
// and so needs an insert rather than an update.
func (c *ChangeSet) IsNew(id string) bool {
	return c.created[id]
}

func (c *ChangeSet) Empty() bool {
	return c.Session == nil && len(c.Sets) == 0 && len(c.Games) == 0 &&
		len(c.Stats) == 0 && len(c.Points) == 0 && len(c.Events) == 0
}

func (c *ChangeSet) see(id string) bool {
	if c.seen[id] {
		return false
	}
	c.seen[id] = true
	return true
}
