package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/mineboard/internal/session"
)

func (g GameHandler) execute(r *http.Request, s *session.Session, text string) WSReply {
	var reply WSReply
	for _, line := range iterBySep(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, err := parseCommand(line)
		if err != nil {
			reply.Error = fmt.Sprintf("%q: %s", line, err)
			break
		}
		switch c.name {
		case wsReveal:
			out, _ := g.reveal(r.Context(), s, c.x, c.y)
			reply.Outcomes = append(reply.Outcomes, out)
		case wsRestart:
			model := g.start(r.Context(), s)
			reply.Board = &model
		}
	}
	view := s.View()
	reply.View = &view
	return reply
}

// ConnectWS plays a session over a websocket. Every text message holds one
// command per line: "g" (view), "o x y" (reveal), "s" (restart).
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.authorize(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	if g.ws.ReadLimit > 0 {
		c.SetReadLimit(g.ws.ReadLimit)
	}

	log := g.log.WithField("session_id", s.ID)
	log.Debug("established WS connection")

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		text := strings.TrimSpace(string(message))
		log.WithField("message", text).Debug("\t>")

		reply := g.execute(r, s, text)

		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			break
		}
		log.WithFields(logrus.Fields{
			"outcomes": len(reply.Outcomes),
			"state":    reply.View.State,
		}).Debug("\t<")
	}
}
