package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/board"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrBoardTooLarge = errors.New("board too large")
)

// Session owns one board. The board itself is unguarded, so every access
// goes through the session mutex.
type Session struct {
	ID        string
	StartedAt time.Time

	mu         sync.Mutex
	board      *board.Board
	rnd        board.Rand
	lastActive time.Time
	endedAt    *time.Time
	restarts   int
	now        func() time.Time
}

type Snapshot struct {
	ID            string
	Width         int
	Height        int
	MineCount     int
	State         board.State
	RevealedCells int
	Restarts      int
	StartedAt     time.Time
	EndedAt       *time.Time
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

// Start (re)starts the board with the session's generator.
func (s *Session) Start() board.RenderModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.State() != board.NotStarted {
		s.restarts++
		s.StartedAt = s.now()
	}
	s.endedAt = nil
	s.touch()
	return s.board.Start(s.rnd)
}

func (s *Session) Reveal(x, y int) (board.Outcome, board.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	out := s.board.Reveal(x, y)
	if out.Kind == board.MineTriggered {
		ended := s.now()
		s.endedAt = &ended
	}
	return out, s.board.View()
}

func (s *Session) View() board.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return s.board.View()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	revealed := 0
	for y := range s.board.Height() {
		for x := range s.board.Width() {
			if s.board.GetCellStatus(x, y).Revealed() {
				revealed++
			}
		}
	}
	return Snapshot{
		ID:            s.ID,
		Width:         s.board.Width(),
		Height:        s.board.Height(),
		MineCount:     s.board.MineCount(),
		State:         s.board.State(),
		RevealedCells: revealed,
		Restarts:      s.restarts,
		StartedAt:     s.StartedAt,
		EndedAt:       s.endedAt,
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxCells int
	newRand  func() board.Rand
	now      func() time.Time
	log      logrus.FieldLogger
	onSweep  func(live int)
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMaxCells(n int) Option {
	return func(s *Store) { s.maxCells = n }
}

// WithSweepObserver is told the number of live sessions after every sweep.
func WithSweepObserver(f func(live int)) Option {
	return func(s *Store) { s.onSweep = f }
}

func NewStore(log logrus.FieldLogger, newRand func() board.Rand, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		newRand:  newRand,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	u := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// Create registers a new, not yet started, board.
func (s *Store) Create(width, height, mineCount int) (*Session, error) {
	b, err := board.New(width, height, mineCount)
	if err != nil {
		return nil, err
	}
	if s.maxCells > 0 && width > s.maxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells",
			ErrBoardTooLarge, width, height, s.maxCells)
	}

	now := s.now()
	session := &Session{
		ID:         newID(),
		StartedAt:  now,
		board:      b,
		rnd:        s.newRand(),
		lastActive: now,
		now:        s.now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := s.Sweep(ttl)
			live := s.Count()
			if n > 0 {
				s.log.WithFields(logrus.Fields{
					"removed": n,
					"live":    live,
				}).Debug("swept idle sessions")
			}
			if s.onSweep != nil {
				s.onSweep(live)
			}
		}
	}
}
