package factory

import (
	"time"

	"github.com/mcoot/grabble/internal/dependencies/mocks"
	"github.com/mcoot/grabble/internal/services/auth"
	"github.com/mcoot/grabble/internal/storage/memory"
	"github.com/mcoot/grabble/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	return t.DictionaryService.LoadWords([]string{
		"ACT", "ANT", "ART", "BAT", "CAT", "COT", "DOG", "EAT", "GOD",
		"HAT", "NIT", "RAT", "SAT", "TAN", "TAR", "TEA", "TEN", "TIN",
		"CATS", "COAT", "DOGS", "GOAT", "RATS", "STAR", "TACO",
		"CRATE", "REACT", "TRACE",
	})
}
