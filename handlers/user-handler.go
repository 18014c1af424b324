package handlers

import (
	"net/http"

	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	members, err := h.service.ListMembers(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, members)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}
