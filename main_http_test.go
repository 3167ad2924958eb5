package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"pendumilo/internal/state"
	"pendumilo/internal/words"
)

const (
	TestWordApple = "APPLE"
	TestWordBanjo = "BANJO"
	TestWordPeach = "PEACH"

	TestStartingGuesses = 3

	FormContentType = "application/x-www-form-urlencoded"
)

// newTestApp builds an App around a fixed word set with APPLE as the
// correct word, registered in the singleton slot.
func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	state.Teardown()
	t.Cleanup(state.Teardown)

	set, err := words.New([]words.Entry{
		{Word: TestWordApple, Hint: "A fruit"},
		{Word: TestWordBanjo, Hint: "An instrument"},
		{Word: TestWordPeach, Hint: "A fruit"},
	}, TestWordApple)
	if err != nil {
		t.Fatalf("building word set: %v", err)
	}

	game, err := state.Create(set, TestStartingGuesses)
	if err != nil {
		t.Fatalf("creating game state: %v", err)
	}

	app := &App{
		Game:            game,
		Words:           set,
		Feed:            newChangeFeed(DefaultFeedLimit),
		StartingGuesses: TestStartingGuesses,
		StartTime:       time.Now(),
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		LimiterMap:      make(map[string]*rate.Limiter),
	}
	game.Subscribe(app.Feed.record)
	return app
}

func postForm(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", FormContentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) GameView {
	t.Helper()
	var view GameView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding game view: %v", err)
	}
	return view
}

// TestHomeHandler checks the landing payload carries the game view.
func TestHomeHandler(t *testing.T) {
	app := newTestApp(t)
	w := get(app.setupRouter(), RouteHome)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / returned status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "guessesLeft") {
		t.Error("home payload does not include the game view")
	}
}

// TestGameStateHandler checks the initial view.
func TestGameStateHandler(t *testing.T) {
	app := newTestApp(t)
	w := get(app.setupRouter(), RouteGameState)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /game-state returned status %d, want 200", w.Code)
	}

	view := decodeView(t, w)
	if view.GuessesLeft != TestStartingGuesses {
		t.Errorf("guessesLeft = %d, want %d", view.GuessesLeft, TestStartingGuesses)
	}
	if view.GameOver || view.Won {
		t.Error("fresh game reported as over")
	}
	if view.CorrectWord != "" {
		t.Errorf("correct word %q exposed before the game is over", view.CorrectWord)
	}
}

// TestGuessHandlerWrongGuess checks a wrong guess costs one try.
func TestGuessHandlerWrongGuess(t *testing.T) {
	app := newTestApp(t)
	w := postForm(app.setupRouter(), RouteGuess, "guess=banjo")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /guess returned status %d, want 200", w.Code)
	}

	var outcome GuessOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decoding outcome: %v", err)
	}
	if outcome.Correct {
		t.Error("wrong guess reported as correct")
	}
	if outcome.Guess != TestWordBanjo {
		t.Errorf("guess echoed as %q, want normalized %q", outcome.Guess, TestWordBanjo)
	}
	if outcome.Game.GuessesLeft != TestStartingGuesses-1 {
		t.Errorf("guessesLeft = %d, want %d", outcome.Game.GuessesLeft, TestStartingGuesses-1)
	}
}

// TestGuessHandlerCorrectGuess checks the win path reveals the word.
func TestGuessHandlerCorrectGuess(t *testing.T) {
	app := newTestApp(t)
	w := postForm(app.setupRouter(), RouteGuess, "guess=apple")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /guess returned status %d, want 200", w.Code)
	}

	var outcome GuessOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decoding outcome: %v", err)
	}
	if !outcome.Correct || !outcome.Game.Won || !outcome.Game.GameOver {
		t.Errorf("winning guess outcome = %+v", outcome)
	}
	if outcome.Likeness != len(TestWordApple) {
		t.Errorf("likeness = %d, want %d", outcome.Likeness, len(TestWordApple))
	}
	if outcome.Game.CorrectWord != TestWordApple {
		t.Errorf("correct word = %q, want %q", outcome.Game.CorrectWord, TestWordApple)
	}
	// Winning does not consume a try.
	if outcome.Game.GuessesLeft != TestStartingGuesses {
		t.Errorf("guessesLeft = %d, want %d", outcome.Game.GuessesLeft, TestStartingGuesses)
	}
}

// TestGuessHandlerRejectsBadInput checks empty and unknown guesses.
func TestGuessHandlerRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	if w := postForm(router, RouteGuess, "guess="); w.Code != http.StatusBadRequest {
		t.Errorf("empty guess returned status %d, want 400", w.Code)
	}
	if w := postForm(router, RouteGuess, "guess=zzzzz"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown word returned status %d, want 400", w.Code)
	}

	// Rejected guesses must not touch the counter.
	if got := app.currentView().GuessesLeft; got != TestStartingGuesses {
		t.Errorf("guessesLeft = %d, want %d", got, TestStartingGuesses)
	}
}

// TestGuessHandlerLossAtZero checks the game ends when tries run out.
func TestGuessHandlerLossAtZero(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	for i := 0; i < TestStartingGuesses; i++ {
		if w := postForm(router, RouteGuess, "guess=banjo"); w.Code != http.StatusOK {
			t.Fatalf("guess %d returned status %d, want 200", i+1, w.Code)
		}
	}

	view := decodeView(t, get(router, RouteGameState))
	if view.GuessesLeft != 0 || !view.GameOver || view.Won {
		t.Errorf("view after losing = %+v", view)
	}
	if view.CorrectWord != TestWordApple {
		t.Errorf("correct word = %q, want %q revealed on loss", view.CorrectWord, TestWordApple)
	}

	if w := postForm(router, RouteGuess, "guess=peach"); w.Code != http.StatusConflict {
		t.Errorf("guess after game over returned status %d, want 409", w.Code)
	}
}

// TestNewGameHandlerRestoresGuesses checks POST /new-game refills the
// counter for the same word.
func TestNewGameHandlerRestoresGuesses(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	postForm(router, RouteGuess, "guess=banjo")
	w := postForm(router, RouteNewGame, "")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game returned status %d, want 200", w.Code)
	}

	view := decodeView(t, w)
	if view.GuessesLeft != TestStartingGuesses || view.GameOver {
		t.Errorf("view after new game = %+v", view)
	}
	if got, _ := state.Current(); got != app.Game {
		t.Error("plain new game replaced the game instance")
	}
}

// TestNewGameHandlerReset checks ?reset=1 tears the game down and
// creates a fresh one from the word file.
func TestNewGameHandlerReset(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	path := filepath.Join(t.TempDir(), "words.json")
	data := `{"words":[{"word":"apple","hint":"A fruit"},{"word":"banjo","hint":"An instrument"}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing word file: %v", err)
	}
	app.WordsFile = path

	old := app.Game
	w := postForm(router, RouteNewGame+"?reset=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game?reset=1 returned status %d, want 200", w.Code)
	}

	current, err := state.Current()
	if err != nil {
		t.Fatalf("Current() after reset: %v", err)
	}
	if current == old {
		t.Error("reset did not replace the game instance")
	}
	if app.Game != current {
		t.Error("app is not holding the recreated game")
	}
	if len(app.Feed.snapshot()) != 0 {
		t.Error("change feed not cleared on reset")
	}
}

// TestRestoreGuessHandler checks a try can be earned back, capped at
// the starting count.
func TestRestoreGuessHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	postForm(router, RouteGuess, "guess=banjo")
	w := postForm(router, RouteRestore, "")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /restore-guess returned status %d, want 200", w.Code)
	}
	if view := decodeView(t, w); view.GuessesLeft != TestStartingGuesses {
		t.Errorf("guessesLeft = %d, want %d", view.GuessesLeft, TestStartingGuesses)
	}

	// At the ceiling the restore is absorbed by clamping.
	if view := decodeView(t, postForm(router, RouteRestore, "")); view.GuessesLeft != TestStartingGuesses {
		t.Errorf("guessesLeft = %d, want %d after absorbed restore", view.GuessesLeft, TestStartingGuesses)
	}
}

// TestChangesHandler checks counter transitions reach the feed in order.
func TestChangesHandler(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	postForm(router, RouteGuess, "guess=banjo")
	postForm(router, RouteGuess, "guess=peach")
	postForm(router, RouteRestore, "")

	w := get(router, RouteChanges)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /changes returned status %d, want 200", w.Code)
	}

	var payload struct {
		Changes []GuessChange `json:"changes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding changes: %v", err)
	}

	want := []GuessChange{{Old: 3, New: 2}, {Old: 2, New: 1}, {Old: 1, New: 2}}
	if len(payload.Changes) != len(want) {
		t.Fatalf("got %d changes, want %d", len(payload.Changes), len(want))
	}
	for i, ch := range payload.Changes {
		if ch.Old != want[i].Old || ch.New != want[i].New {
			t.Errorf("change %d = (%d, %d), want (%d, %d)", i, ch.Old, ch.New, want[i].Old, want[i].New)
		}
	}
}

// TestHealthHandler checks the health payload shape.
func TestHealthHandler(t *testing.T) {
	app := newTestApp(t)
	w := get(app.setupRouter(), RouteHealth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned status %d, want 200", w.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding health payload: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status = %v, want ok", payload["status"])
	}
	if payload["words_loaded"] != float64(3) {
		t.Errorf("words_loaded = %v, want 3", payload["words_loaded"])
	}
}

// TestRateLimitMiddleware checks rate limiting blocks excessive requests.
func TestRateLimitMiddleware(t *testing.T) {
	app := newTestApp(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 1

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(app.rateLimitMiddleware())
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if w := get(router, "/limited"); w.Code != http.StatusOK {
		t.Fatalf("first request returned status %d, want 200", w.Code)
	}
	if w := get(router, "/limited"); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request returned status %d, want 429", w.Code)
	}
}
