package http

import (
	"context"
	"encoding/json"
	"net/http"

	"arith-quiz-service/internal/app"
	"arith-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Value *int `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	SessionID string           `json:"sessionId"`
	State     domain.GameState `json:"state"`
}

type tickPayload struct {
	TimeLeft int `json:"timeLeft"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one game session for the lifetime of the connection.
// The first frame is always "session"; engine events follow in the order the controller emits them.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 64)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	session, err := h.service.StartSession(r.Context(), &wsListener{send: send, closed: closeSignals})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := session.ID()

	state, err := h.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("initial snapshot failed")
	}
	hello := outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID, State: state}}

	// single writer: the session frame goes out before anything queued by the listener
	go func() {
		defer close(writerDone)
		if err := conn.WriteJSON(hello); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("ws write error")
			return
		}
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("ws write error")
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	pushError := func(message string) {
		push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Value == nil {
				pushError("invalid answer payload")
				continue
			}
			res, err := h.service.SubmitAnswer(r.Context(), sessionID, *payload.Value)
			if err != nil {
				pushError(err.Error())
				continue
			}
			// accepted answers are reported by the listener
			if res.Ignored {
				push(outboundMessage[any]{Type: "answerResult", Payload: res})
			}
		case "animationComplete":
			if _, err := h.service.AnimationComplete(r.Context(), sessionID); err != nil {
				pushError(err.Error())
			}
		case "startRound":
			if err := h.service.StartRound(r.Context(), sessionID); err != nil {
				pushError(err.Error())
			}
		case "snapshot":
			state, err := h.service.Snapshot(r.Context(), sessionID)
			if err != nil {
				pushError(err.Error())
				continue
			}
			push(outboundMessage[any]{Type: "snapshot", Payload: state})
		default:
			pushError("unsupported message type")
		}
	}

	close(closeSignals)
	h.service.EndSession(context.Background(), sessionID)
	close(send)
	<-writerDone
}

// wsListener queues engine events for the connection writer. It drops events once the
// connection is closing so the controller loop never blocks on a dead client.
type wsListener struct {
	send   chan<- outboundMessage[any]
	closed <-chan struct{}
}

func (l *wsListener) OnRoundStart(round domain.RoundStart) {
	l.push("roundStart", round)
}

func (l *wsListener) OnTick(timeLeft int) {
	l.push("tick", tickPayload{TimeLeft: timeLeft})
}

func (l *wsListener) OnAnswerResult(result domain.AnswerResult) {
	l.push("answerResult", result)
}

func (l *wsListener) OnTimeout() {
	l.push("timeout", struct{}{})
}

func (l *wsListener) OnFeedback(feedback domain.Feedback) {
	l.push("feedback", feedback)
}

func (l *wsListener) push(typ string, payload any) {
	select {
	case l.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-l.closed:
	}
}
