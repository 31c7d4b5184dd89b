package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"jleague-quiz/internal/app"
	"jleague-quiz/internal/domain"
)

const qrSize = 256

// ReportHandler serves finished session reports and their share QR code.
type ReportHandler struct {
	service *app.QuizService
}

func NewReportHandler(service *app.QuizService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ServeReport writes the JSON report of a finished session.
func (h *ReportHandler) ServeReport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rep, err := h.service.Report(r.Context(), ps.ByName("id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.Printf("write report: %v", err)
	}
}

// ServeShareQR renders the share text of a finished session as a QR code PNG.
func (h *ReportHandler) ServeShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rep, err := h.service.Report(r.Context(), ps.ByName("id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	png, err := qrcode.Encode(rep.ShareText, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(png); err != nil {
		log.Printf("write share qr: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuizInProgress), errors.Is(err, domain.ErrQuizCompleted),
		errors.Is(err, domain.ErrNoActiveQuestion):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAnswerCountMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
