package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

func commentListHandler(commentUC *usecase.CommentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		comments, err := commentUC.ListByTask(r.Context(), currentUserID(r.Context()), taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, comments)
	}
}

func commentCreateHandler(commentUC *usecase.CommentUseCase) http.HandlerFunc {
	type request struct {
		Content string `json:"content"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		comment, err := commentUC.Create(r.Context(), currentUserID(r.Context()), taskID, req.Content)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, comment)
	}
}

func commentDeleteHandler(commentUC *usecase.CommentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID := types.CommentID(chi.URLParam(r, "commentID"))
		if err := commentUC.Delete(r.Context(), currentUserID(r.Context()), commentID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}
