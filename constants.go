package main

// Game configuration defaults
const (
	DefaultStartingGuesses = 4
	DefaultWordsFile       = "data/words.json"
	DefaultFeedLimit       = 100
)

// Route constants
const (
	RouteHome      = "/"
	RouteGameState = "/game-state"
	RouteGuess     = "/guess"
	RouteNewGame   = "/new-game"
	RouteRestore   = "/restore-guess"
	RouteChanges   = "/changes"
	RouteHealth    = "/healthz"
)

// Error message constants
const (
	ErrorGameOver    = "Game is over."
	ErrorEmptyGuess  = "Guess must not be empty."
	ErrorUnknownWord = "Word is not in the current set."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
