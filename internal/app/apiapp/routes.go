package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/goodwill/internal/services/auth"
	goodwillsvc "github.com/ivankudzin/goodwill/internal/services/goodwill"
	likessvc "github.com/ivankudzin/goodwill/internal/services/likes"
	mediasvc "github.com/ivankudzin/goodwill/internal/services/media"
	userssvc "github.com/ivankudzin/goodwill/internal/services/users"
	"github.com/ivankudzin/goodwill/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	LikeService     *likessvc.Service
	GoodwillService *goodwillsvc.Service
	UserService     *userssvc.Service
	MediaService    *mediasvc.Service
	Logger          *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	likesHandler := handlers.NewLikesHandler(deps.LikeService, deps.Logger)
	historyHandler := handlers.NewHistoryHandler(deps.LikeService, deps.Logger)
	quotaHandler := handlers.NewQuotaHandler(deps.LikeService, deps.Logger)
	goodwillHandler := handlers.NewGoodwillHandler(deps.GoodwillService, deps.Logger)
	usersHandler := handlers.NewUsersHandler(deps.UserService, deps.Logger)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService, deps.Logger)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)

		r.Route("/likes", func(r chi.Router) {
			r.Post("/", likesHandler.Create)
			r.Get("/received", likesHandler.Received)
			r.Get("/quota", quotaHandler.Handle)

			r.Get("/history/sent/{phone}", historyHandler.Sent)
			r.Get("/history/received/{phone}", historyHandler.Received)
			r.Get("/history/between/{a}/{b}", historyHandler.Between)
			r.Get("/history/latest/{from}/{to}", historyHandler.Latest)

			r.Delete("/pair/{from}/{to}", likesHandler.UnlikeByPair)
			r.Put("/pair/{from}/{to}/endorse", likesHandler.EndorseByPair)
			r.Delete("/pair/{from}/{to}/endorse", likesHandler.UnEndorseByPair)

			r.Delete("/{id}", likesHandler.Unlike)
			r.Put("/{id}/endorse", likesHandler.Endorse)
			r.Put("/{id}/unendorse", likesHandler.UnEndorse)
		})

		r.Get("/goodwill/{phone}", goodwillHandler.Handle)

		r.Get("/users/self", usersHandler.Self)
		r.Post("/users/search", usersHandler.Search)
		r.Get("/users/{phone}", usersHandler.ByPhoneNumber)

		r.Post("/media/upload-url", mediaHandler.UploadURL)
	})
}
