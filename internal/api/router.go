package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "filedrive/internal/api/context"
	"filedrive/internal/api/handlers"
	"filedrive/internal/api/middleware"
)

type Dependencies struct {
	FileHandler    *handlers.FileHandler
	UploadHandler  *handlers.UploadHandler
	UserHandler    *handlers.UserHandler
	WebhookHandler *handlers.WebhookHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	// Identity provider sync, authenticated by webhook signature.
	router.POST("/api/v1/webhooks/identity", wrap(deps.WebhookHandler.HandleIdentityEvent))

	authMid := deps.AuthMiddleware

	// Blob plane. Receive and Serve are keyed by handle possession
	// alone; the registry never mints handles to unauthorized callers.
	router.POST("/api/v1/uploads",
		chain(deps.UploadHandler.GenerateUploadReference, authMid.Handle, middleware.RateLimit("upload")))
	router.PUT("/uploads/:handle", wrap(deps.UploadHandler.Receive))
	router.GET("/blobs/:handle", wrap(deps.UploadHandler.Serve))

	// File registry
	router.POST("/api/v1/files",
		chain(deps.FileHandler.Create, authMid.Handle, middleware.RateLimit("api_write")))
	router.GET("/api/v1/files",
		chain(deps.FileHandler.List, authMid.Handle, middleware.RateLimit("api_read")))
	router.DELETE("/api/v1/files/:file_id",
		chain(deps.FileHandler.SoftDelete, authMid.Handle, middleware.RateLimit("api_write")))
	router.POST("/api/v1/files/:file_id/restore",
		chain(deps.FileHandler.Restore, authMid.Handle, middleware.RateLimit("api_write")))
	router.GET("/api/v1/files/:file_id/download", wrap(deps.FileHandler.Download))

	// Favorites
	router.POST("/api/v1/files/:file_id/favorite",
		chain(deps.FileHandler.ToggleFavorite, authMid.Handle, middleware.RateLimit("api_write")))
	router.GET("/api/v1/favorites",
		chain(deps.FileHandler.ListFavorites, authMid.Handle, middleware.RateLimit("api_read")))

	// Users
	router.GET("/api/v1/me",
		chain(deps.UserHandler.GetMe, authMid.Handle, middleware.RateLimit("api_read")))
	router.GET("/api/v1/users/:user_id/profile",
		chain(deps.UserHandler.GetProfile, authMid.Handle, middleware.RateLimit("api_read")))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
