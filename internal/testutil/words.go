package testutil

// Words is an in-memory word lookup for tests. Words are stored as given,
// so callers pass them uppercased.
type Words map[string]bool

// NewWords builds a Words set
func NewWords(words ...string) Words {
	w := make(Words, len(words))
	for _, word := range words {
		w[word] = true
	}
	return w
}

// Has reports whether word is in the set
func (w Words) Has(word string) bool {
	return w[word]
}
