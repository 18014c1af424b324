package handlers

import (
	"net/http"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"
)

type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(r, &req) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(r, &req) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetProfile returns the authenticated user.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), c.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}
