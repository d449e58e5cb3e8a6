package handlers

import (
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/mineboard/internal/board"
	"github.com/vancomm/mineboard/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateNewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	var pos Position
	err := decoder.Decode(&pos, src)
	return pos, err
}

type HistoryFilterDTO struct {
	Width     *int  `schema:"width"`
	Height    *int  `schema:"height"`
	MineCount *int  `schema:"mine_count"`
	Lost      *bool `schema:"lost"`
	Limit     int   `schema:"limit"`
}

func ParseHistoryFilter(src map[string][]string) (repository.GameSessionFilter, error) {
	var dto HistoryFilterDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return repository.GameSessionFilter{}, err
	}
	return repository.GameSessionFilter(dto), nil
}

type NewGameDTO struct {
	GameSessionId string            `json:"game_session_id"`
	Token         string            `json:"token"`
	StartedAt     int64             `json:"started_at"`
	Board         board.RenderModel `json:"board"`
}

type GameSessionDTO struct {
	GameSessionId string     `json:"game_session_id"`
	StartedAt     int64      `json:"started_at"`
	EndedAt       *int64     `json:"ended_at,omitempty"`
	Restarts      int        `json:"restarts"`
	View          board.View `json:"view"`
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

type RevealDTO struct {
	Outcome board.Outcome `json:"outcome"`
	View    board.View    `json:"view"`
}
