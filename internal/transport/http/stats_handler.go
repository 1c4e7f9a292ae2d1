package http

import (
	"context"
	"encoding/json"
	"net/http"

	"arith-quiz-service/internal/app"
	"github.com/rs/zerolog/log"
)

// LiveCounter reports sessions tracked outside this process, e.g. Redis liveness markers.
type LiveCounter interface {
	LiveSessions(ctx context.Context) (int, error)
}

type statsPayload struct {
	ActiveSessions int  `json:"activeSessions"`
	LiveSessions   *int `json:"liveSessions,omitempty"`
}

type StatsHandler struct {
	service *app.GameService
	live    LiveCounter
}

// NewStatsHandler builds the /stats endpoint. live may be nil.
func NewStatsHandler(service *app.GameService, live LiveCounter) *StatsHandler {
	return &StatsHandler{service: service, live: live}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload := statsPayload{ActiveSessions: h.service.ActiveSessions()}
	if h.live != nil {
		if n, err := h.live.LiveSessions(r.Context()); err != nil {
			log.Warn().Err(err).Msg("count live sessions failed")
		} else {
			payload.LiveSessions = &n
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("write stats failed")
	}
}
