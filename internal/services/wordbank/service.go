package wordbank

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/storage"
)

// Source describes where the loaded corpus came from
type Source string

const (
	SourceNone     Source = "none"
	SourceFile     Source = "file"
	SourceStorage  Source = "storage"
	SourceBuiltin  Source = "builtin"
	SourceProvided Source = "provided"
)

// builtinWords is the last-resort corpus used when nothing else loads
var builtinWords = []string{
	"apple", "house", "cat", "sun", "tree", "car", "fish", "moon",
	"flower", "guitar", "rocket", "pizza", "umbrella", "snowman",
	"bicycle", "castle", "dragon", "ice cream", "rainbow", "turtle",
}

// Service holds the immutable in-memory word corpus
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu     sync.RWMutex
	words  []string
	source Source
}

// New creates a new word bank
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "wordbank")),
		source:  SourceNone,
	}
}

// Load loads the corpus from path and never fails: on a read error it
// falls back to a corpus saved in storage, then to the built-in list.
func (s *Service) Load(ctx context.Context, path string) {
	err := s.LoadFromFile(ctx, path)
	if err == nil {
		return
	}
	s.logger.Warn("could not load word corpus, falling back",
		slog.String("path", path),
		slog.String("error", err.Error()))

	if err := s.LoadFromStorage(ctx); err == nil {
		s.logger.Info("word corpus loaded from storage", slog.Int("words", s.WordCount()))
		return
	}

	s.setWords(builtinWords, SourceBuiltin)
	s.logger.Warn("using built-in word list", slog.Int("words", len(builtinWords)))
}

// LoadFromFile loads a newline-delimited corpus and saves it to storage.
// Blank lines and lines starting with '#' are skipped.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("%s: %w", path, model.ErrWordsNotLoaded)
	}

	if err := s.storage.SaveWords(ctx, words); err != nil {
		s.logger.Warn("could not save word corpus to storage", slog.String("error", err.Error()))
	}

	s.setWords(words, SourceFile)
	s.logger.Info("word corpus loaded", slog.String("path", path), slog.Int("words", s.WordCount()))
	return nil
}

// LoadFromStorage loads a corpus previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return model.ErrWordsNotLoaded
	}
	s.setWords(words, SourceStorage)
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	if len(words) == 0 {
		return model.ErrWordsNotLoaded
	}
	s.setWords(words, SourceProvided)
	return nil
}

// setWords trims and de-duplicates case-insensitively, keeping first spelling
func (s *Service) setWords(words []string, source Source) {
	seen := make(map[string]struct{}, len(words))
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = cleaned
	s.source = source
}

// PickChoices returns n distinct words drawn without replacement, or the
// whole corpus in random order when it holds fewer than n words.
func (s *Service) PickChoices(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := s.words
	if len(words) == 0 {
		// Never loaded: serve from the built-in list rather than stall a round
		words = builtinWords
	}
	if n > len(words) {
		n = len(words)
	}
	if n <= 0 {
		return []string{}
	}

	// Partial Fisher-Yates over a sparse permutation of indices
	swapped := make(map[int]int, n*2)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	picks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + s.random.Intn(len(words)-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		picks = append(picks, words[vj])
	}
	return picks
}

// IsLoaded returns whether a corpus has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words) > 0
}

// WordCount returns the number of words in the corpus
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// Source reports where the current corpus came from
func (s *Service) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
