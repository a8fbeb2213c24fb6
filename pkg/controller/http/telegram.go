package http

import (
	"net/http"

	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

func telegramLinkHandler(telegramUC *usecase.TelegramUseCase) http.HandlerFunc {
	type response struct {
		LinkCode string `json:"link_code"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code, err := telegramUC.IssueLinkToken(r.Context(), currentUserID(r.Context()))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusCreated, response{LinkCode: code})
	}
}

func telegramStatusHandler(telegramUC *usecase.TelegramUseCase) http.HandlerFunc {
	type response struct {
		IsLinked       bool         `json:"is_linked"`
		TelegramChatID types.ChatID `json:"telegram_chat_id,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status, err := telegramUC.Status(r.Context(), currentUserID(r.Context()))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, response{
			IsLinked:       status.IsLinked,
			TelegramChatID: status.ChatID,
		})
	}
}

func telegramUnlinkHandler(telegramUC *usecase.TelegramUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := telegramUC.Unlink(r.Context(), currentUserID(r.Context())); err != nil {
			handleError(r.Context(), w, err)
			return
		}
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}
