package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/board"
	"github.com/vancomm/mineboard/internal/config"
	"github.com/vancomm/mineboard/internal/metrics"
	"github.com/vancomm/mineboard/internal/middleware"
	"github.com/vancomm/mineboard/internal/repository"
	"github.com/vancomm/mineboard/internal/session"
)

// Recorder keeps the history of finished and running games.
// *repository.Queries implements it.
type Recorder interface {
	CreateGameSession(context.Context, repository.CreateGameSessionParams) (*repository.GameSession, error)
	UpdateGameSession(context.Context, string, repository.UpdateGameSessionParams) (*repository.GameSession, error)
	ListGameSessions(context.Context, repository.GameSessionFilter) ([]repository.GameSession, error)
}

var (
	ErrUnauthorized = errors.New("missing or invalid session token")
	ErrNoHistory    = errors.New("game history is not available")
)

type GameHandler struct {
	log      logrus.FieldLogger
	store    *session.Store
	recorder Recorder // nil when no database is configured
	jwt      *config.JWT
	ws       *config.WebSocket
	metrics  *metrics.Metrics
}

func NewGameHandler(
	log logrus.FieldLogger,
	store *session.Store,
	recorder Recorder,
	jwt *config.JWT,
	ws *config.WebSocket,
	metrics *metrics.Metrics,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		store:    store,
		recorder: recorder,
		jwt:      jwt,
		ws:       ws,
		metrics:  metrics,
	}

	return handler
}

// authorize resolves {id} for requests carrying that session's token.
func (g GameHandler) authorize(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")

	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.SessionId != id {
		sendErrorOrLog(w, g.log, http.StatusUnauthorized, ErrUnauthorized)
		return nil, false
	}

	s, err := g.store.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, g.log, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to fetch session")
		return nil, false
	}

	return s, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	s, err := g.store.Create(dto.Width, dto.Height, dto.MineCount)
	if errors.Is(err, board.ErrInvalidConfig) || errors.Is(err, session.ErrBoardTooLarge) {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to create a game session")
		return
	}

	token, err := g.jwt.Sign(g.jwt.NewSessionClaims(s.ID))
	if err != nil {
		g.store.Delete(s.ID)
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to sign session token")
		return
	}

	model := g.start(r.Context(), s)

	if g.recorder != nil {
		_, err := g.recorder.CreateGameSession(r.Context(), repository.CreateGameSessionParams{
			GameSessionId: s.ID,
			Width:         dto.Width,
			Height:        dto.Height,
			MineCount:     dto.MineCount,
			StartedAt:     s.StartedAt,
		})
		if err != nil {
			g.log.WithError(err).WithField("session_id", s.ID).Warn("unable to record game session")
		}
	}

	g.log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"width":      dto.Width,
		"height":     dto.Height,
		"mine_count": dto.MineCount,
	}).Debug("created game session")

	sendJSONOrLog(w, g.log, NewGameDTO{
		GameSessionId: s.ID,
		Token:         token,
		StartedAt:     s.StartedAt.UnixMilli(),
		Board:         model,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorize(w, r)
	if !ok {
		return
	}

	view := s.View()
	snap := s.Snapshot()
	sendJSONOrLog(w, g.log, GameSessionDTO{
		GameSessionId: snap.ID,
		StartedAt:     snap.StartedAt.UnixMilli(),
		EndedAt:       unixMilli(snap.EndedAt),
		Restarts:      snap.Restarts,
		View:          view,
	})
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorize(w, r)
	if !ok {
		return
	}

	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	out, view := g.reveal(r.Context(), s, pos.X, pos.Y)

	sendJSONOrLog(w, g.log, RevealDTO{Outcome: out, View: view})
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorize(w, r)
	if !ok {
		return
	}

	model := g.start(r.Context(), s)

	sendJSONOrLog(w, g.log, model)
}

func (g GameHandler) History(w http.ResponseWriter, r *http.Request) {
	if g.recorder == nil {
		sendErrorOrLog(w, g.log, http.StatusServiceUnavailable, ErrNoHistory)
		return
	}

	filter, err := ParseHistoryFilter(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	sessions, err := g.recorder.ListGameSessions(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to fetch game history")
		return
	}
	if sessions == nil {
		sessions = []repository.GameSession{}
	}

	sendJSONOrLog(w, g.log, sessions)
}

func (g GameHandler) start(ctx context.Context, s *session.Session) board.RenderModel {
	restarted := s.Snapshot().State != board.NotStarted
	model := s.Start()

	g.metrics.GamesStarted.Inc()
	g.metrics.ActiveSessions.Set(float64(g.store.Count()))

	if restarted {
		g.record(ctx, s.Snapshot())
	}
	return model
}

func (g GameHandler) reveal(ctx context.Context, s *session.Session, x, y int) (board.Outcome, board.View) {
	out, view := s.Reveal(x, y)

	g.metrics.ObserveReveal(out)

	if out.Kind != board.Ignored {
		g.record(ctx, s.Snapshot())
	}
	if out.Kind == board.MineTriggered {
		g.log.WithFields(logrus.Fields{
			"session_id": s.ID,
			"x":          x,
			"y":          y,
		}).Debug("mine triggered")
	}
	return out, view
}

func (g GameHandler) record(ctx context.Context, snap session.Snapshot) {
	if g.recorder == nil {
		return
	}
	lost := snap.State == board.Lost
	_, err := g.recorder.UpdateGameSession(ctx, snap.ID, repository.UpdateGameSessionParams{
		Lost:          &lost,
		RevealedCells: &snap.RevealedCells,
		Restarts:      &snap.Restarts,
		StartedAt:     &snap.StartedAt,
		EndedAt:       snap.EndedAt,
		ClearEndedAt:  snap.EndedAt == nil,
	})
	if err != nil {
		g.log.WithError(err).WithField("session_id", snap.ID).Warn("unable to update game record")
	}
}
