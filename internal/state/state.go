// Package state holds the model for a hangman round: the word set in
// play and the number of guesses the player has left. The guess count
// is observable, so anything rendering it can subscribe instead of
// polling.
package state

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// WordSet is the collaborator that owns the words for the current
// round. GameState keeps a reference and delegates the correct-word
// lookup; it never mutates the set.
type WordSet interface {
	CorrectWord() string
}

// guessListener pairs a callback with the token handed out at
// subscription time, so it can be removed later.
type guessListener struct {
	token string
	fn    func(old, new int)
}

// GameState is the model for one game. The guess count always stays
// within [0, max]; every mutation clamps rather than erroring, and
// listeners fire only when the stored value actually changes.
//
// GameState is not safe for concurrent use. Callers that mutate it
// from multiple goroutines must serialize access themselves.
type GameState struct {
	wordSet   WordSet
	guesses   int
	max       int
	listeners []guessListener
}

// New returns a GameState holding the given word set, with the guess
// count starting at startingGuesses. A negative starting count is
// treated as zero.
func New(ws WordSet, startingGuesses int) *GameState {
	if startingGuesses < 0 {
		startingGuesses = 0
	}
	return &GameState{
		wordSet: ws,
		guesses: startingGuesses,
		max:     startingGuesses,
	}
}

// WordSet returns the word set for this game.
func (s *GameState) WordSet() WordSet {
	return s.wordSet
}

// CorrectWord returns the word the player is trying to guess.
func (s *GameState) CorrectWord() string {
	return s.wordSet.CorrectWord()
}

// GuessCount returns the number of guesses remaining.
func (s *GameState) GuessCount() int {
	return s.guesses
}

// MaxGuesses returns the starting guess count, which is also the upper
// bound the counter is clamped to.
func (s *GameState) MaxGuesses() int {
	return s.max
}

// SetGuessCount sets the guess count to n clamped to [0, MaxGuesses].
// Listeners are notified only if the clamped value differs from the
// current one.
func (s *GameState) SetGuessCount(n int) {
	s.store(clamp(n, 0, s.max))
}

// DecrementGuesses lowers the guess count by one, stopping at zero.
// Called when the player guesses wrong.
func (s *GameState) DecrementGuesses() {
	s.store(max(0, s.guesses-1))
}

// IncrementGuesses raises the guess count by one, stopping at the
// starting value. Called when the player earns a guess back.
func (s *GameState) IncrementGuesses() {
	s.store(min(s.max, s.guesses+1))
}

// ResetGuesses restores the guess count to the starting value.
func (s *GameState) ResetGuesses() {
	s.store(s.max)
}

// Subscribe registers fn to be called synchronously, in registration
// order, whenever the guess count changes. The returned token can be
// passed to Unsubscribe. A mutation absorbed by clamping does not
// notify.
func (s *GameState) Subscribe(fn func(old, new int)) string {
	token := uuid.NewString()
	s.listeners = append(s.listeners, guessListener{token: token, fn: fn})
	return token
}

// Unsubscribe removes the listener registered under token. It returns
// false if the token is unknown.
func (s *GameState) Unsubscribe(token string) bool {
	before := len(s.listeners)
	s.listeners = lo.Reject(s.listeners, func(l guessListener, _ int) bool {
		return l.token == token
	})
	return len(s.listeners) != before
}

// store writes the already-clamped value and notifies listeners on an
// actual change.
func (s *GameState) store(n int) {
	old := s.guesses
	if n == old {
		return
	}
	s.guesses = n

	// Snapshot so a callback can subscribe or unsubscribe without
	// disturbing this notification round.
	for _, l := range append([]guessListener(nil), s.listeners...) {
		l.fn(old, n)
	}
}

// clamp constrains n to the closed range [low, high].
func clamp(n, low, high int) int {
	return max(low, min(high, n))
}
