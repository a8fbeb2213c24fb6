package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

func attachmentListHandler(attachmentUC *usecase.AttachmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		attachments, err := attachmentUC.ListByTask(r.Context(), currentUserID(r.Context()), taskID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, attachments)
	}
}

func attachmentCreateHandler(attachmentUC *usecase.AttachmentUseCase) http.HandlerFunc {
	type request struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		taskID := types.TaskID(chi.URLParam(r, "taskID"))
		attachment, err := attachmentUC.Create(r.Context(), currentUserID(r.Context()), taskID, &usecase.AttachmentInput{
			Filename:    req.Filename,
			ContentType: req.ContentType,
			Size:        req.Size,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, attachment)
	}
}

func attachmentDeleteHandler(attachmentUC *usecase.AttachmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attachmentID := types.AttachmentID(chi.URLParam(r, "attachmentID"))
		if err := attachmentUC.Delete(r.Context(), currentUserID(r.Context()), attachmentID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}
