package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mineboard/internal/board"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func setupTestStore(opts ...Option) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	log, _ := test.NewNullLogger()
	newRand := func() board.Rand { return rand.New(rand.NewPCG(1, 2)) }
	s := NewStore(log, newRand, append([]Option{WithClock(c.now)}, opts...)...)
	return s, c
}

func TestCreateAndGet(t *testing.T) {
	s, _ := setupTestStore()

	session, err := s.Create(9, 9, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, s.Count())

	s.Delete(session.ID)
	_, err = s.Get(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejects(t *testing.T) {
	s, _ := setupTestStore(WithMaxCells(100))

	_, err := s.Create(3, 3, 9)
	assert.ErrorIs(t, err, board.ErrInvalidConfig)

	_, err = s.Create(20, 20, 1)
	assert.ErrorIs(t, err, ErrBoardTooLarge)

	_, err = s.Create(101, 1, 0)
	assert.ErrorIs(t, err, ErrBoardTooLarge)

	_, err = s.Create(1<<62+1, 4, 3)
	assert.ErrorIs(t, err, board.ErrInvalidConfig)

	_, err = s.Create(1<<40, 1<<20, 0)
	assert.ErrorIs(t, err, ErrBoardTooLarge)

	assert.Zero(t, s.Count())
}

func TestIDsAreUnique(t *testing.T) {
	s, _ := setupTestStore()

	seen := make(map[string]bool)
	for range 100 {
		session, err := s.Create(2, 2, 1)
		require.NoError(t, err)
		require.False(t, seen[session.ID])
		seen[session.ID] = true
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, c := setupTestStore()
	session, err := s.Create(5, 5, 3)
	require.NoError(t, err)

	model := session.Start()
	assert.True(t, model.InProgress)

	var mine board.Point
	for _, cell := range model.Cells {
		if cell.Mine {
			mine = board.Point{X: cell.X, Y: cell.Y}
			break
		}
	}

	c.advance(time.Minute)
	out, view := session.Reveal(mine.X, mine.Y)
	assert.Equal(t, board.MineTriggered, out.Kind)
	assert.Equal(t, board.Lost, view.State)

	snap := session.Snapshot()
	assert.Equal(t, board.Lost, snap.State)
	require.NotNil(t, snap.EndedAt)
	assert.Equal(t, c.now(), *snap.EndedAt)
	assert.Zero(t, snap.Restarts)

	session.Start()
	snap = session.Snapshot()
	assert.Equal(t, board.InProgress, snap.State)
	assert.Nil(t, snap.EndedAt)
	assert.Equal(t, 1, snap.Restarts)
	assert.Equal(t, c.now(), snap.StartedAt)
}

func TestSnapshotCountsRevealed(t *testing.T) {
	s, _ := setupTestStore()
	session, err := s.Create(4, 4, 0)
	require.NoError(t, err)
	session.Start()

	out, _ := session.Reveal(0, 0)
	assert.Len(t, out.Cells, 16)
	assert.Equal(t, 16, session.Snapshot().RevealedCells)
}

func TestSweep(t *testing.T) {
	s, c := setupTestStore()

	stale, err := s.Create(3, 3, 1)
	require.NoError(t, err)
	c.advance(30 * time.Minute)
	fresh, err := s.Create(3, 3, 1)
	require.NoError(t, err)
	c.advance(45 * time.Minute)

	assert.Equal(t, 1, s.Sweep(time.Hour))

	_, err = s.Get(stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestConcurrentReveals(t *testing.T) {
	s, _ := setupTestStore()
	session, err := s.Create(30, 30, 0)
	require.NoError(t, err)
	session.Start()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for y := range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := range 30 {
				out, _ := session.Reveal(x, y)
				mu.Lock()
				total += len(out.Cells)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 900, total)
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	s, c := setupTestStore()
	_, err := s.Create(2, 2, 0)
	require.NoError(t, err)
	c.advance(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond, time.Hour) }()

	assert.Eventually(t, func() bool { return s.Count() == 0 }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
