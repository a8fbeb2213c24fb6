package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

type taskRequest struct {
	ColumnID    types.ColumnID `json:"column_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    types.Priority `json:"priority,omitempty"`
	Position    *int           `json:"position,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	AssigneeID  types.UserID   `json:"assignee_id,omitempty"`
}

func (req *taskRequest) input() *usecase.TaskInput {
	return &usecase.TaskInput{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Position:    req.Position,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	}
}

func taskListHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		tasks, err := taskUC.ListByBoard(r.Context(), currentUserID(r.Context()), boardID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, tasks)
	}
}

func taskCreateHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		task, err := taskUC.Create(r.Context(), currentUserID(r.Context()), boardID, req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, task)
	}
}

func taskGetHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		task, err := taskUC.Get(r.Context(), currentUserID(r.Context()), taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, task)
	}
}

func taskUpdateHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		task, err := taskUC.Update(r.Context(), currentUserID(r.Context()), taskID, req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, task)
	}
}

func taskDeleteHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		if err := taskUC.Delete(r.Context(), currentUserID(r.Context()), taskID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}

func taskSearchHandler(taskUC *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		boardID := types.BoardID(r.URL.Query().Get("board_id"))
		tasks, err := taskUC.Search(r.Context(), currentUserID(r.Context()), query, boardID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, tasks)
	}
}
