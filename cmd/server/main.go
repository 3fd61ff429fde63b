// cmd/server/main.go
package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/auth"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cache"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/handlers"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/middleware"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, match results will not be queued: %v", err)
	}

	catalog := cards.DefaultSet()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	srv := handlers.NewServer(logger, catalog, timer.Real(), rng)

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/claim", handlers.ClaimEphemeralHandler)

	// deck endpoints
	mux.Handle("/deck/save", middleware.LogMiddleware(logger)(handlers.SaveDeckHandler(srv)))
	mux.Handle("/deck/list", middleware.LogMiddleware(logger)(handlers.ListDecksHandler(srv)))

	// match room endpoints
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(handlers.CreateRoomHandler(srv)))
	mux.Handle("/room/list", middleware.LogMiddleware(logger)(handlers.ListRoomsHandler(srv)))
	mux.Handle("/room/delete/", middleware.LogMiddleware(logger)(handlers.DeleteRoomHandler(srv)))
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.MatchWSHandler(logger, srv),
	)))

	// draft endpoints
	mux.Handle("/draft/create", middleware.LogMiddleware(logger)(handlers.CreateDraftHandler(srv)))
	mux.Handle("/draft/list", middleware.LogMiddleware(logger)(handlers.ListDraftsHandler(srv)))
	mux.Handle("/draft/standings/", middleware.LogMiddleware(logger)(handlers.DraftStandingsHandler(srv)))
	mux.Handle("/draft/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.DraftWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
