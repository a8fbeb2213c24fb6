package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (req *boardRequest) input() *usecase.BoardInput {
	return &usecase.BoardInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
}

func boardListHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := boardUC.List(r.Context(), currentUserID(r.Context()))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, boards)
	}
}

func boardCreateHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req boardRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		board, err := boardUC.Create(r.Context(), currentUserID(r.Context()), req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, board)
	}
}

func boardGetHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		board, err := boardUC.Get(r.Context(), currentUserID(r.Context()), boardID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, board)
	}
}

func boardUpdateHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req boardRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		board, err := boardUC.Update(r.Context(), currentUserID(r.Context()), boardID, req.input())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, board)
	}
}

func boardDeleteHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		if err := boardUC.Delete(r.Context(), currentUserID(r.Context()), boardID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}

func boardListMembersHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		members, err := boardUC.ListMembers(r.Context(), currentUserID(r.Context()), boardID)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, members)
	}
}

func boardAddMemberHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	type request struct {
		UserID types.UserID `json:"user_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		if err := boardUC.AddMember(r.Context(), currentUserID(r.Context()), boardID, req.UserID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, map[string]bool{"success": true})
	}
}

func boardRemoveMemberHandler(boardUC *usecase.BoardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		memberID := types.UserID(chi.URLParam(r, "userID"))
		if err := boardUC.RemoveMember(r.Context(), currentUserID(r.Context()), boardID, memberID); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}
