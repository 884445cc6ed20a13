package handlers

import (
	"net/http"

	"github.com/Zharaskq/pitwall/services"
)

type AdminHandler struct {
	recomputer  services.Recomputer
	syncService services.SyncService
}

func NewAdminHandler(recomputer services.Recomputer, syncService services.SyncService) *AdminHandler {
	return &AdminHandler{
		recomputer:  recomputer,
		syncService: syncService,
	}
}

// Recompute replays every stored result and rebuilds all derived state.
func (h *AdminHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if err := h.recomputer.Recompute(r.Context()); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "recompute finished"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SyncResults pulls the external feed on demand instead of waiting for the
// scheduler tick.
func (h *AdminHandler) SyncResults(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncService.SyncResults(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusBadGateway, err.Error())
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
