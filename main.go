package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ApptChat/AC-Backend/internal/auth"
	"github.com/ApptChat/AC-Backend/internal/chatbot"
	"github.com/ApptChat/AC-Backend/internal/chatbot/nlp"
	"github.com/ApptChat/AC-Backend/internal/config"
	"github.com/ApptChat/AC-Backend/internal/db"
	"github.com/ApptChat/AC-Backend/internal/middleware"
	"github.com/ApptChat/AC-Backend/internal/utils"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close(conn)
	log.Println("Connected to database")

	if err := auth.Init(conn); err != nil {
		log.Fatal("Failed to migrate auth tables: ", err)
	}
	if err := chatbot.Init(conn); err != nil {
		log.Fatal("Failed to migrate chat tables: ", err)
	}

	nlpClient := nlp.NewClient(cfg.NLPBaseURL, cfg.NLP.Timeout)
	authHandler := auth.NewHandler(conn, cfg.JWTSecret, cfg.Tokens.IdentityTTL)
	chatHandler := chatbot.NewHandler(conn, nlpClient, cfg.JWTSecret, cfg.Tokens.ChatTTL, cfg.Tokens.SessionTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	r.Get("/api/health", HealthHandler)
	r.Mount("/api/auth", authHandler.SetupRoutes(limiter))
	r.Mount("/api/chatbot", chatHandler.SetupRoutes())

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("Server listening on port :%s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http: ", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
