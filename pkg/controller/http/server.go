package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/kanbot/pkg/service/eventbus"
	"github.com/secmon-lab/kanbot/pkg/usecase"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	bus    *eventbus.Bus
}

type Options func(*Server)

func New(uc *usecase.UseCases, bus *eventbus.Bus, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		bus:    bus,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authRegisterHandler(uc.Auth))
		r.Post("/auth/login", authLoginHandler(uc.Auth))

		// Everything below requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(uc.Auth))

			r.Post("/auth/logout", authLogoutHandler(uc.Auth))
			r.Get("/auth/me", authMeHandler(uc.Auth))

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardListHandler(uc.Board))
				r.Post("/", boardCreateHandler(uc.Board))
				r.Route("/{boardID}", func(r chi.Router) {
					r.Get("/", boardGetHandler(uc.Board))
					r.Put("/", boardUpdateHandler(uc.Board))
					r.Delete("/", boardDeleteHandler(uc.Board))
					r.Get("/members", boardListMembersHandler(uc.Board))
					r.Post("/members", boardAddMemberHandler(uc.Board))
					r.Delete("/members/{userID}", boardRemoveMemberHandler(uc.Board))
					r.Get("/columns", columnListHandler(uc.Column))
					r.Post("/columns", columnCreateHandler(uc.Column))
					r.Get("/tasks", taskListHandler(uc.Task))
					r.Post("/tasks", taskCreateHandler(uc.Task))
				})
			})

			r.Route("/columns/{columnID}", func(r chi.Router) {
				r.Put("/", columnUpdateHandler(uc.Column))
				r.Delete("/", columnDeleteHandler(uc.Column))
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/search", taskSearchHandler(uc.Task))
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskGetHandler(uc.Task))
					r.Put("/", taskUpdateHandler(uc.Task))
					r.Delete("/", taskDeleteHandler(uc.Task))
					r.Get("/comments", commentListHandler(uc.Comment))
					r.Post("/comments", commentCreateHandler(uc.Comment))
					r.Get("/attachments", attachmentListHandler(uc.Attachment))
					r.Post("/attachments", attachmentCreateHandler(uc.Attachment))
				})
			})

			r.Delete("/comments/{commentID}", commentDeleteHandler(uc.Comment))
			r.Delete("/attachments/{attachmentID}", attachmentDeleteHandler(uc.Attachment))

			r.Route("/telegram", func(r chi.Router) {
				r.Post("/link", telegramLinkHandler(uc.Telegram))
				r.Get("/status", telegramStatusHandler(uc.Telegram))
				r.Post("/unlink", telegramUnlinkHandler(uc.Telegram))
			})
		})
	})

	// Live board channel. Deliberately outside the auth group: clients
	// connect with the board ID alone, and any frame a client sends is
	// relayed verbatim to the board's other subscribers.
	r.Get("/ws/board/{boardID}", s.boardWSHandler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
