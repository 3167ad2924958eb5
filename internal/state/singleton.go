package state

import (
	"errors"
	"sync"
)

// The application keeps exactly one logical game per process. Create
// fills the slot once; everything after startup reads it through
// Current. Misordered calls are programming errors, surfaced through
// the two sentinel errors below.
var (
	// ErrNotInitialized is returned by Current before Create has run.
	ErrNotInitialized = errors.New("game state has not been created")

	// ErrAlreadyInitialized is returned by Create when the game state
	// already exists and Teardown has not been called.
	ErrAlreadyInitialized = errors.New("game state has already been created")
)

var (
	singletonMu sync.Mutex
	singleton   *GameState
)

// Create builds the process-wide GameState and fills the singleton
// slot. Calling it a second time without Teardown fails with
// ErrAlreadyInitialized.
func Create(ws WordSet, startingGuesses int) (*GameState, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		return nil, ErrAlreadyInitialized
	}
	singleton = New(ws, startingGuesses)
	return singleton, nil
}

// Current returns the process-wide GameState created by Create, or
// ErrNotInitialized if Create has not run.
func Current() (*GameState, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		return nil, ErrNotInitialized
	}
	return singleton, nil
}

// Teardown empties the singleton slot so a later Create can start a
// fresh game. Handles already held by callers keep working; they just
// point at the discarded game.
func Teardown() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	singleton = nil
}
