package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fastx/backend/docs"
	"github.com/fastx/backend/internal/config"
	"github.com/fastx/backend/internal/database"
	"github.com/fastx/backend/internal/handlers"
	mW "github.com/fastx/backend/internal/middleware"
	"github.com/fastx/backend/internal/services"
)

// @title FastX Logistics Auth API
// @version 1.0
// @description Authentication and account-lifecycle backend for the FastX logistics application
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := database.InitDatabase(cfg.Database)
	defer db.Close()

	redisClient := database.InitRedis(cfg.Redis)
	defer redisClient.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Mail.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	mailer := services.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.Mail.Sender)
	dispatcher := services.NewMailDispatcher(mailer, cfg.Server.BaseURL)

	codec := services.NewCredentialCodec(cfg.Argon2)
	otpManager := services.NewOTPManager(redisClient, codec, cfg.OTP)
	tokenIssuer := services.NewTokenIssuer(redisClient, cfg.JWT, cfg.Auth.BlacklistTTL)
	accountStore := services.NewAccountStore(db)
	authService := services.NewAuthService(accountStore, otpManager, tokenIssuer,
		codec, dispatcher, cfg.Auth.MaxLoginAttempts)

	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService, cfg.Google)
	auth := mW.NewAuth(tokenIssuer)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	r.Route("/api/v1/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot_password", authHandler.ForgotPassword)
		r.Put("/resend_otp_unlock", authHandler.ResendUnlockOTP)
		r.Put("/unlock_account", authHandler.UnlockAccount)

		// Google OAuth
		r.Get("/google", oauthHandler.GoogleLogin)
		r.Get("/google/callback", oauthHandler.GoogleCallback)

		// Confirm-token endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(services.TokenConfirm))
			r.Get("/resend_otp", authHandler.ResendOTP)
			r.Put("/confirm", authHandler.Confirm)
		})

		// Reset-token endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(services.TokenReset))
			r.Put("/validate_otp", authHandler.ValidateResetOTP)
			r.Put("/reset_password", authHandler.ResetPassword)
		})

		// Access-token endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/logout", authHandler.Logout)
			r.Get("/account", authHandler.GetAccount)
			r.Post("/register/rider_docs", authHandler.RegisterRiderDocs)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
