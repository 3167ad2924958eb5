package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"pendumilo/internal/state"
	"pendumilo/internal/words"
)

func main() {
	_ = godotenv.Load()

	app := newApp()
	logInfo("Starting Pendumilo in %s mode", map[bool]string{true: "production", false: "development"}[app.IsProduction])

	if err := app.startGame(); err != nil {
		logFatal("Failed to start game: %v", err)
	}
	logInfo("Loaded %d words from %s, %d guesses to find the right one",
		app.Words.Len(), app.WordsFile, app.StartingGuesses)

	startServer(app.setupRouter())
}

// newApp builds the App from the environment.
func newApp() *App {
	return &App{
		Feed:            newChangeFeed(getEnvInt("CHANGE_FEED_LIMIT", DefaultFeedLimit)),
		WordsFile:       getEnvString("WORDS_FILE", DefaultWordsFile),
		StartingGuesses: getEnvInt("STARTING_GUESSES", DefaultStartingGuesses),
		IsProduction:    os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		StartTime:       time.Now(),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		LimiterMap:      make(map[string]*rate.Limiter),
	}
}

// startGame loads the word set and creates the process-wide game
// state, wiring the change feed to the guess counter.
func (app *App) startGame() error {
	set, err := words.Load(app.WordsFile)
	if err != nil {
		return err
	}

	game, err := state.Create(set, app.StartingGuesses)
	if err != nil {
		return err
	}

	game.Subscribe(func(old, new int) {
		app.Feed.record(old, new)
		logInfo("Guess count changed: %d -> %d", old, new)
	})

	app.Words = set
	app.Game = game
	app.Won = false
	return nil
}

// setupRouter builds the Gin engine with middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	// Everything served here is live game state.
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.POST(RouteRestore, app.rateLimitMiddleware(), app.restoreGuessHandler)
	router.GET(RouteChanges, app.changesHandler)
	router.GET(RouteHealth, app.healthHandler)

	return router
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
