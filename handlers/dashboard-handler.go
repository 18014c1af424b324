package handlers

import (
	"net/http"

	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	dash, err := h.service.GlobalDashboard(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dash)
}

func (h *DashboardHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	dash, err := h.service.UserDashboard(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dash)
}
