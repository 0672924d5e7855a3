package main

import (
	"net/http"
	"os"
	"time"

	"pet-adoption-store/internal/adapters/auth/jwtauth"
	"pet-adoption-store/internal/platform/logger"
	"pet-adoption-store/internal/ports/auth"
	"pet-adoption-store/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var (
		verifier auth.TokenVerifier
		issuer   auth.TokenIssuer
	)
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		svc, err := jwtauth.New(secret, 0)
		if err != nil {
			log.Error("jwt setup failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = svc
		issuer = svc
	} else {
		// sin secret: modo dev con headers X-Debug-User-ID / X-Debug-Role
		log.Warn("JWT_SECRET not set, running in dev mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  issuer,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
