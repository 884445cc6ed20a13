package handlers

import (
	"net/http"

	"github.com/Zharaskq/pitwall/services"
)

type DriverHandler struct {
	driverService services.DriverService
}

func NewDriverHandler(driverService services.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.driverService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"drivers": drivers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "driverID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	driver, err := h.driverService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"driver": driver}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateDriverInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	driver, err := h.driverService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"driver": driver}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DriverHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.driverService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DriverHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.driverService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
