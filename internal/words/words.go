// Package words supplies the word set for a game: the candidate words,
// their hints, and the one correct word the player has to find.
package words

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

// Entry is one candidate word with its hint, as stored in the word
// file.
type Entry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// wordFile is the JSON shape of the word file on disk.
type wordFile struct {
	Words []Entry `json:"words"`
}

// Set is an immutable word set for one game. It implements the
// state.WordSet contract.
type Set struct {
	entries []Entry
	hints   map[string]string
	correct string
}

// New builds a Set from the given entries with correct as the target
// word. Words are normalized to upper case and deduplicated; the
// correct word must be a member of the set.
func New(entries []Entry, correct string) (*Set, error) {
	normalized := lo.FilterMap(entries, func(e Entry, _ int) (Entry, bool) {
		e.Word = strings.ToUpper(strings.TrimSpace(e.Word))
		return e, e.Word != ""
	})
	normalized = lo.UniqBy(normalized, func(e Entry) string { return e.Word })
	if len(normalized) == 0 {
		return nil, errors.New("word set is empty")
	}

	correct = strings.ToUpper(strings.TrimSpace(correct))
	if !lo.ContainsBy(normalized, func(e Entry) bool { return e.Word == correct }) {
		return nil, fmt.Errorf("correct word %q is not in the word set", correct)
	}

	return &Set{
		entries: normalized,
		hints: lo.Associate(normalized, func(e Entry) (string, string) {
			return e.Word, e.Hint
		}),
		correct: correct,
	}, nil
}

// Load reads a JSON word file and builds a Set with a randomly chosen
// correct word.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word file: %w", err)
	}
	var wf wordFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing word file %s: %w", path, err)
	}
	entries := lo.Filter(wf.Words, func(e Entry, _ int) bool {
		return strings.TrimSpace(e.Word) != ""
	})
	if len(entries) == 0 {
		return nil, fmt.Errorf("word file %s contains no words", path)
	}
	return New(entries, pickEntry(entries).Word)
}

// pickEntry returns a uniformly random entry, falling back to the
// first one if the random source fails.
func pickEntry(entries []Entry) Entry {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(entries))))
	if err != nil {
		return entries[0]
	}
	return entries[n.Int64()]
}

// CorrectWord returns the word the player has to guess.
func (s *Set) CorrectWord() string {
	return s.correct
}

// Words returns the candidate words in file order.
func (s *Set) Words() []string {
	return lo.Map(s.entries, func(e Entry, _ int) string { return e.Word })
}

// Contains reports whether word is a member of the set. The lookup is
// case-insensitive.
func (s *Set) Contains(word string) bool {
	_, ok := s.hints[strings.ToUpper(strings.TrimSpace(word))]
	return ok
}

// Hint returns the hint for the given word, or an empty string if the
// word is not in the set.
func (s *Set) Hint(word string) string {
	return s.hints[strings.ToUpper(strings.TrimSpace(word))]
}

// Len returns the number of candidate words.
func (s *Set) Len() int {
	return len(s.entries)
}
