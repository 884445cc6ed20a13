package handlers

import (
	"net/http"

	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/services"
)

type RaceHandler struct {
	raceService services.RaceService
}

func NewRaceHandler(raceService services.RaceService) *RaceHandler {
	return &RaceHandler{raceService: raceService}
}

func (h *RaceHandler) List(w http.ResponseWriter, r *http.Request) {
	races, err := h.raceService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"races": races}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "raceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	race, err := h.raceService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"race": race}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateRaceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	race, err := h.raceService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"race": race}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RaceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "raceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.RaceStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.raceService.UpdateStatus(r.Context(), id, input.Status); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": input.Status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RaceHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "raceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	race, err := h.raceService.SubmitResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"race": race}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
