package main

import (
	"budget-server/config"
	"budget-server/handlers"
	"budget-server/middleware"
	"budget-server/store"
	"log"
	"net/http"
	"strings"
)

func main() {
	cfg := config.Load()
	middleware.SetJWTSecret(cfg.JWTSecret)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer s.Close()

	hub := handlers.NewHub()

	authHandler := handlers.NewAuthHandler(s)
	userHandler := handlers.NewUserHandler(s)
	reminderHandler := handlers.NewReminderHandler(s, hub)

	mux := http.NewServeMux()

	// Public routes (no auth required)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/ws", hub.HandleWebSocket)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Protected routes (auth required)
	mux.HandleFunc("GET /api/auth/me", withAuth(authHandler.Me))

	// Users
	mux.HandleFunc("GET /api/users", withAuth(userHandler.List))
	mux.HandleFunc("GET /api/users/me", withAuth(userHandler.GetMe))
	mux.HandleFunc("PUT /api/users/me", withAuth(userHandler.UpdateProfile))
	mux.HandleFunc("GET /api/users/{id}", withAuth(userHandler.Get))

	// Reminders
	mux.HandleFunc("GET /api/reminders", withAuth(reminderHandler.List))
	mux.HandleFunc("POST /api/reminders", withAuth(reminderHandler.Create))
	mux.HandleFunc("GET /api/reminders/{id}", withAuth(reminderHandler.Get))
	mux.HandleFunc("PUT /api/reminders/{id}", withAuth(reminderHandler.Update))
	mux.HandleFunc("DELETE /api/reminders/{id}", withAuth(reminderHandler.Delete))
	mux.HandleFunc("POST /api/reminders/{id}/complete", withAuth(reminderHandler.Complete))

	// Dashboard summary
	mux.HandleFunc("GET /api/summary", withAuth(reminderHandler.Summary))

	// CORS wrapper
	handler := corsMiddleware(mux)

	log.Printf("Budget server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

// withAuth wraps a handler with authentication
func withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = middleware.SetUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
