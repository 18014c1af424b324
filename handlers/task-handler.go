package handlers

import (
	"net/http"

	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/services"
	"github.com/MuhammadFattan/task-management/utils"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListTasks(r.Context(), c, models.TaskStatus(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.service.GetTask(r.Context(), c, id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var input models.TaskInput
	if !decode(r, &input) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.CreateTask(r.Context(), c, input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var input models.TaskInput
	if !decode(r, &input) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), c, id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Task updated successfully",
		"updatedTask": task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.service.DeleteTask(r.Context(), c, id); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var req models.StatusUpdateRequest
	if !decode(r, &req) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), c, id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task status updated",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var req models.ChecklistUpdateRequest
	if !decode(r, &req) {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateChecklist(r.Context(), c, id, req.TodoChecklist)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task checklist updated",
		"task":    task,
	})
}
