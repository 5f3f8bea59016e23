package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/storage"
)

// MinWordLength is the shortest word the dictionary accepts
const MinWordLength = 3

// Lookup is the read-only view of a dictionary the game engine needs
type Lookup interface {
	Has(word string) bool
}

// fallbackWords is used when no dictionary file is available
var fallbackWords = []string{
	"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "CAN", "HAD",
	"HER", "WAS", "ONE", "OUR", "OUT", "DAY", "GET", "HAS", "HIM", "HIS",
	"HOW", "ITS", "MAY", "NEW", "NOW", "OLD", "SEE", "WAY", "WHO", "BOY",
	"DID", "CAT", "DOG", "BAT", "RAT", "HAT", "SAT", "MAT", "PAT", "FAT",
	"WORD", "PLAY", "GAME", "TILE", "DROP", "GRAB", "FALL", "TURN", "MOVE",
	"SCORE", "POINT", "BOARD", "PLAYER", "LETTER",
}

// Service holds the set of valid words
type Service struct {
	storage storage.Storage

	mu     sync.RWMutex
	words  map[string]struct{}
	loaded bool
}

// New creates a new dictionary Service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
		words:   make(map[string]struct{}),
	}
}

// Normalize uppercases and trims a word. The second return is false if the
// result is not a dictionary word shape: at least three letters, A-Z only.
func Normalize(word string) (string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(word))
	if len(cleaned) < MinWordLength {
		return "", false
	}
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] < 'A' || cleaned[i] > 'Z' {
			return "", false
		}
	}
	return cleaned, true
}

// LoadFromStorage loads dictionary words previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return model.ErrDictionaryNotLoaded
	}
	return s.loadWords(words)
}

// LoadFromFile loads dictionary words from a file (one word per line) and
// saves the accepted words to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary: %w", err)
	}
	defer file.Close()

	words, err := readWords(file)
	if err != nil {
		return fmt.Errorf("reading dictionary %s: %w", path, err)
	}

	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	return s.loadWords(words)
}

// LoadFallback loads a small built-in word list
func (s *Service) LoadFallback() error {
	return s.loadWords(fallbackWords)
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if word, ok := Normalize(scanner.Text()); ok {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Service) loadWords(words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make(map[string]struct{}, len(words))
	for _, word := range words {
		if w, ok := Normalize(word); ok {
			s.words[w] = struct{}{}
		}
	}
	s.loaded = true
	return nil
}

// Has reports whether the uppercase word is in the dictionary
func (s *Service) Has(word string) bool {
	if len(word) < MinWordLength {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.words[word]
	return ok
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// ServiceInterface is the dictionary's public surface
type ServiceInterface interface {
	Lookup
	IsLoaded() bool
	WordCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadFallback() error
	LoadWords(words []string) error
}

var _ ServiceInterface = (*Service)(nil)
