package reminders

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/caresync/clinic-scheduler/pkg/logging"
)

// Handler exposes the reminder sweep as an HTTP trigger for external schedulers.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a reminder trigger handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Send handles POST /api/send-reminders.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	sent, err := h.svc.Run(r.Context())
	if err != nil {
		h.logger.Error("reminder sweep failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"message": "reminder sweep failed",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Sent %d reminders.", sent),
		"data":    map[string]int{"reminders_sent": sent},
	})
}
