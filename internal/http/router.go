package http

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/config"
	"github.com/bloghub/bloghub/internal/httputil"
	"github.com/bloghub/bloghub/internal/logging"
	"github.com/bloghub/bloghub/internal/post"
	"github.com/bloghub/bloghub/internal/profile"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	profileHandler *profile.Handler,
	postHandler *post.Handler,
	authMiddleware *auth.Middleware,
	uploadsDir string,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Account and session routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/api/register", authHandler.Register)
		r.Get("/verify-now/{verificationCode}", authHandler.VerifyNow)
		r.Post("/api/authenticate", authHandler.Authenticate)
		r.Put("/api/reset-password", authHandler.RequestReset)
		r.Get("/reset-password-now/{resetPasswordToken}", authHandler.ResetPasswordPage)
		r.Post("/reset-password-now", authHandler.ResetPasswordNow)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/api/authenticate", authHandler.CurrentAccount)
		})
	})

	// Profile routes
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/api/profile-user/{username}", profileHandler.UserProfile)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/api/create-profile", profileHandler.CreateProfile)
			r.Get("/api/my-profile", profileHandler.MyProfile)
			r.Put("/api/update-profile", profileHandler.UpdateProfile)
		})
	})

	// Post routes
	r.Route("/posts", func(r chi.Router) {
		r.Get("/api/get-posts", postHandler.ListPosts)
		r.Get("/api/get-post/{slug}", postHandler.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/api/post-image-upload", postHandler.UploadImage)
			r.Post("/api/create-post", postHandler.CreatePost)
			r.Put("/api/update-post/{id}", postHandler.UpdatePost)
			r.Put("/api/like-post/{id}", postHandler.LikePost)
			r.Post("/api/comment-post/{id}", postHandler.CommentPost)
		})
	})

	// Uploaded images (avatars, post images)
	uploadsRoot := http.Dir(filepath.Clean(uploadsDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsRoot)))

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
