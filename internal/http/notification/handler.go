package notification

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/p24gate/internal/notification"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.notify)
}

// notify answers the gateway's server-to-server notification. The body and
// status code are a fixed protocol: the gateway retries anything that is not
// acknowledged.
func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "[failed]", http.StatusBadRequest)
		return
	}

	status, body := h.svc.Process(r.Context(), r.PostForm)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
