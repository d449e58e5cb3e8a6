package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mineboard/internal/config"
	"github.com/vancomm/mineboard/internal/handlers"
)

func setupTestApp(t *testing.T, basePath string) *App {
	t.Helper()

	log, _ := test.NewNullLogger()
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	return New(log, &Config{
		Addr:      "127.0.0.1:0",
		BasePath:  basePath,
		JWT:       config.NewHMACJWT([]byte("secret"), time.Hour),
		WebSocket: ws,
		Sessions: &config.Sessions{
			TTL:           time.Hour,
			SweepInterval: time.Millisecond,
			MaxCells:      100,
		},
	}, nil)
}

func TestRoutes(t *testing.T) {
	server := httptest.NewServer(setupTestApp(t, "").Handler())
	defer server.Close()

	res, err := http.Get(server.URL + "/status")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `"ok"`, string(body))

	res, err = http.Post(server.URL+"/game?width=9&height=9&mine_count=10", "", nil)
	require.NoError(t, err)
	var game handlers.NewGameDTO
	require.NoError(t, json.NewDecoder(res.Body).Decode(&game))
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, game.Board.Cells, 81)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/game/"+game.GameSessionId, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+game.Token)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(server.URL + "/history")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "mineboard_games_started_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestBasePath(t *testing.T) {
	server := httptest.NewServer(setupTestApp(t, "/api").Handler())
	defer server.Close()

	res, err := http.Get(server.URL + "/api/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(server.URL + "/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStartStopsWithContext(t *testing.T) {
	app := setupTestApp(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
