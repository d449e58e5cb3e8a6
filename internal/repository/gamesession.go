package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrSessionExists = errors.New("game session already recorded")

// GameSession is the history record of one game. The board is not part of
// it.
type GameSession struct {
	GameSessionId string     `json:"game_session_id"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	MineCount     int        `json:"mine_count"`
	Lost          bool       `json:"lost"`
	RevealedCells int        `json:"revealed_cells"`
	Restarts      int        `json:"restarts"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}

type CreateGameSessionParams struct {
	GameSessionId string
	Width         int
	Height        int
	MineCount     int
	StartedAt     time.Time
}

func (q Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			game_session_id, width, height, mine_count, started_at
		)
		VALUES (
			@game_session_id, @width, @height, @mine_count, @started_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"game_session_id": params.GameSessionId,
			"width":           params.Width,
			"height":          params.Height,
			"mine_count":      params.MineCount,
			"started_at":      params.StartedAt,
		},
	)
	session, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, ErrSessionExists
	}
	return session, err
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId string) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Lost          *bool
	RevealedCells *int
	Restarts      *int
	StartedAt     *time.Time
	EndedAt       *time.Time
	ClearEndedAt  bool
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = NOW()"}
	args := pgx.NamedArgs{}

	if p.Lost != nil {
		parts = append(parts, "lost = @lost")
		args["lost"] = *p.Lost
	}
	if p.RevealedCells != nil {
		parts = append(parts, "revealed_cells = @revealed_cells")
		args["revealed_cells"] = *p.RevealedCells
	}
	if p.Restarts != nil {
		parts = append(parts, "restarts = @restarts")
		args["restarts"] = *p.Restarts
	}
	if p.StartedAt != nil {
		parts = append(parts, "started_at = @started_at")
		args["started_at"] = *p.StartedAt
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	} else if p.ClearEndedAt {
		parts = append(parts, "ended_at = NULL")
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId string, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type GameSessionFilter struct {
	Width     *int
	Height    *int
	MineCount *int
	Lost      *bool
	Limit     int
}

func (f GameSessionFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	if f.Lost != nil {
		clauses = append(clauses, "lost = @lost")
		args["lost"] = *f.Lost
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) ListGameSessions(
	ctx context.Context, filter GameSessionFilter,
) ([]GameSession, error) {
	query := "SELECT * FROM game_session"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query += " ORDER BY started_at DESC LIMIT @limit;"
	args["limit"] = limit

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameSession])
}
