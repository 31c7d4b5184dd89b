package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"jleague-quiz/internal/app"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
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
	Answers []string `json:"answers"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and plays one quiz session over the connection.
// Sessions abandoned before finishing are dropped when the connection closes; finished sessions
// stay available to the report endpoints until they expire.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	datasetID := r.URL.Query().Get("dataset")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	question, err := h.service.Start(r.Context(), datasetID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := question.SessionID

	finished := false
	defer func() {
		if !finished {
			h.service.End(r.Context(), sessionID)
		}
	}()

	send := func(msgType string, payload any) bool {
		if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
			log.Printf("ws write error: %v", err)
			return false
		}
		return true
	}
	sendError := func(err error) bool {
		return send("error", errorPayload{Message: err.Error()})
	}

	if !send("question", question) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		ok := true
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = send("error", errorPayload{Message: "invalid answer payload"})
				break
			}
			outcome, err := h.service.SubmitAnswer(r.Context(), sessionID, payload.Answers)
			if err != nil {
				ok = sendError(err)
				break
			}
			ok = send("answerResult", outcome.Result)
			if ok && outcome.Next != nil {
				ok = send("question", outcome.Next)
			}
		case "finish":
			rep, err := h.service.Finish(r.Context(), sessionID)
			if err != nil {
				ok = sendError(err)
				break
			}
			finished = true
			ok = send("report", rep)
		default:
			ok = send("error", errorPayload{Message: "unsupported message type"})
		}
		if !ok {
			return
		}
	}
}
