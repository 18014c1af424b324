package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/middleware"
	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeError maps a service error to its HTTP status and {"message"} body.
func writeError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logging.Logger.WithError(err).Error("Event ID: UNCLASSIFIED_ERROR, Description: Unexpected handler error")
		utils.WriteMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.WriteMessage(w, http.StatusBadRequest, svcErr.Message)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.WriteMessage(w, http.StatusUnauthorized, svcErr.Message)
	case errors.Is(err, services.ErrForbidden):
		utils.WriteMessage(w, http.StatusForbidden, svcErr.Message)
	case errors.Is(err, services.ErrNotFound):
		utils.WriteMessage(w, http.StatusNotFound, svcErr.Message)
	default:
		utils.WriteMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

func decode(r *http.Request, dst interface{}) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

func pathID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// caller reads the identity stored by middleware.Protect.
func caller(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	c, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.WriteMessage(w, http.StatusUnauthorized, "Not authorized, no token")
	}
	return c, ok
}
