package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

type columnRequest struct {
	Name     string `json:"name"`
	Position *int   `json:"position,omitempty"`
	Color    string `json:"color,omitempty"`
}

func (req *columnRequest) input() *usecase.ColumnInput {
	return &usecase.ColumnInput{
		Name:     req.Name,
		Position: req.Position,
		Color:    req.Color,
	}
}

func columnListHandler(columnUC *usecase.ColumnUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		columns, err := columnUC.List(r.Context(), currentUserID(r.Context()), boardID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, columns)
	}
}

func columnCreateHandler(columnUC *usecase.ColumnUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req columnRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		column, err := columnUC.Create(r.Context(), currentUserID(r.Context()), boardID, req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, column)
	}
}

func columnUpdateHandler(columnUC *usecase.ColumnUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req columnRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		columnID := types.ColumnID(chi.URLParam(r, "columnID"))
		column, err := columnUC.Update(r.Context(), currentUserID(r.Context()), columnID, req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, column)
	}
}

func columnDeleteHandler(columnUC *usecase.ColumnUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		columnID := types.ColumnID(chi.URLParam(r, "columnID"))
		if err := columnUC.Delete(r.Context(), currentUserID(r.Context()), columnID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}
