package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pendumilo/internal/state"
	"pendumilo/internal/words"
)

// contextKey is the type for values stored in request contexts.
type contextKey string

// App holds the process-wide game and everything the HTTP surface
// needs around it. Handler access to the game is serialized through
// GameMutex; the state holder itself does no locking.
type App struct {
	Game  *state.GameState
	Words *words.Set
	Feed  *changeFeed

	GameMutex sync.Mutex
	Won       bool

	WordsFile       string
	StartingGuesses int
	IsProduction    bool
	StartTime       time.Time

	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
}

// GameView is the JSON shape of the current game returned to clients.
type GameView struct {
	GuessesLeft int    `json:"guessesLeft"`
	MaxGuesses  int    `json:"maxGuesses"`
	WordCount   int    `json:"wordCount"`
	Hint        string `json:"hint"`
	GameOver    bool   `json:"gameOver"`
	Won         bool   `json:"won"`
	CorrectWord string `json:"correctWord,omitempty"` // revealed only once the game is over
}

// GuessOutcome is the JSON response to a guess: the likeness score
// (letters matching the correct word by position) plus the resulting
// game view.
type GuessOutcome struct {
	Guess    string   `json:"guess"`
	Correct  bool     `json:"correct"`
	Likeness int      `json:"likeness"`
	Game     GameView `json:"game"`
}

// GuessChange records one observed transition of the guess counter.
type GuessChange struct {
	Old int       `json:"old"`
	New int       `json:"new"`
	At  time.Time `json:"at"`
}
