package http

import (
	"io"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"jleague-quiz/internal/app"
)

// NewRouter wires the quiz endpoints.
func NewRouter(service *app.QuizService) http.Handler {
	router := httprouter.New()
	ws := NewWSHandler(service)
	reports := NewReportHandler(service)

	router.HandlerFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	router.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	router.GET("/sessions/:id/report", reports.ServeReport)
	router.GET("/sessions/:id/share.png", reports.ServeShareQR)

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		log.Printf("panic serving %s: %v", r.URL.Path, v)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
	return router
}
