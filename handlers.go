package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pendumilo/internal/state"
)

// homeHandler returns the landing payload for the current game.
func (app *App) homeHandler(c *gin.Context) {
	game := app.currentView()
	c.JSON(http.StatusOK, gin.H{
		"title":   "Pendumilo - A Word Guessing Game",
		"message": "Guess the word before your tries run out!",
		"hint":    game.Hint,
		"game":    game,
	})
}

// gameStateHandler returns the current game view.
func (app *App) gameStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, app.currentView())
}

// guessHandler evaluates a whole-word guess. A wrong guess costs one
// try; the correct word wins the game.
func (app *App) guessHandler(c *gin.Context) {
	guess := normalizeGuess(c.PostForm("guess"))
	if guess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorEmptyGuess})
		return
	}

	app.GameMutex.Lock()
	defer app.GameMutex.Unlock()

	if app.Won || app.Game.GuessCount() == 0 {
		logInfo("Guess %q rejected: game already over", guess)
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameOver, "game": app.viewLocked()})
		return
	}
	if !app.Words.Contains(guess) {
		logInfo("Guess %q rejected: not in word set", guess)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorUnknownWord, "game": app.viewLocked()})
		return
	}

	target := app.Game.CorrectWord()
	correct := guess == target
	if correct {
		app.Won = true
		logInfo("Player won, correct word was: %s", target)
	} else {
		app.Game.DecrementGuesses()
		if app.Game.GuessCount() == 0 {
			logInfo("Player lost, correct word was: %s", target)
		}
	}

	c.JSON(http.StatusOK, GuessOutcome{
		Guess:    guess,
		Correct:  correct,
		Likeness: likeness(guess, target),
		Game:     app.viewLocked(),
	})
}

// newGameHandler restores the full guess count for the current word.
// With ?reset=1 it tears the game down and starts over with a freshly
// picked word.
func (app *App) newGameHandler(c *gin.Context) {
	app.GameMutex.Lock()
	defer app.GameMutex.Unlock()

	if c.Query("reset") == "1" {
		state.Teardown()
		app.Feed.reset()
		if err := app.startGame(); err != nil {
			logWarn("Failed to start new game: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start a new game."})
			return
		}
		logInfo("Started new game with a fresh word")
	} else {
		app.Game.ResetGuesses()
		app.Won = false
		logInfo("Restored guesses for the current word")
	}

	c.JSON(http.StatusOK, app.viewLocked())
}

// restoreGuessHandler gives the player one try back, capped at the
// starting count.
func (app *App) restoreGuessHandler(c *gin.Context) {
	app.GameMutex.Lock()
	defer app.GameMutex.Unlock()

	if app.Won || app.Game.GuessCount() == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameOver, "game": app.viewLocked()})
		return
	}

	app.Game.IncrementGuesses()
	c.JSON(http.StatusOK, app.viewLocked())
}

// changesHandler returns the recorded guess-counter transitions.
func (app *App) changesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"changes": app.Feed.snapshot()})
}

// healthHandler reports process health and basic game stats.
func (app *App) healthHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded": app.Words.Len(),
		"guesses_left": app.currentView().GuessesLeft,
		"uptime":       formatUptime(uptime),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// currentView builds a GameView under the game lock.
func (app *App) currentView() GameView {
	app.GameMutex.Lock()
	defer app.GameMutex.Unlock()
	return app.viewLocked()
}

// viewLocked builds a GameView. Callers must hold GameMutex.
func (app *App) viewLocked() GameView {
	left := app.Game.GuessCount()
	over := app.Won || left == 0
	view := GameView{
		GuessesLeft: left,
		MaxGuesses:  app.Game.MaxGuesses(),
		WordCount:   app.Words.Len(),
		Hint:        app.Words.Hint(app.Game.CorrectWord()),
		GameOver:    over,
		Won:         app.Won,
	}
	if over {
		view.CorrectWord = app.Game.CorrectWord()
	}
	return view
}

// normalizeGuess trims and upper-cases player input.
func normalizeGuess(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// likeness counts positions where guess and target hold the same
// letter.
func likeness(guess, target string) int {
	n := 0
	for i := 0; i < len(guess) && i < len(target); i++ {
		if guess[i] == target[i] {
			n++
		}
	}
	return n
}
