package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/mineboard/internal/handlers"
	"github.com/vancomm/mineboard/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	var recorder handlers.Recorder
	if a.db != nil {
		recorder = repository.New(a.db)
	}

	game := handlers.NewGameHandler(
		a.log, a.store, recorder, a.cfg.JWT, a.cfg.WebSocket, a.metrics,
	)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/reveal", game.Reveal)
	a.router.HandleFunc("POST /game/{id}/start", game.Restart)
	a.router.HandleFunc("GET /game/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET /history", game.History)

	a.router.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.router.HandleFunc("GET /status", handlers.Status)
}
