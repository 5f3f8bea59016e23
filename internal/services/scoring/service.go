package scoring

import (
	"strings"
	"unicode"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/detection"
	"github.com/mcoot/grabble/internal/services/dictionary"
)

// bonusMultiplier is applied once per earned bonus
const bonusMultiplier = 2

// WordScore is the scored value of a word on the board
type WordScore struct {
	Base    int
	Score   int
	Bonuses []model.Bonus
}

// Service scores claimed words
type Service struct {
	dictionary dictionary.Lookup
}

// New creates a new scoring Service
func New(dictionary dictionary.Lookup) *Service {
	return &Service{
		dictionary: dictionary,
	}
}

// CalculateWordScore scores a word at the given positions. The base score is
// the sum of tile points; each bonus doubles it. Bonuses are reported in the
// order diagonal, palindrome, emordnilap.
func (s *Service) CalculateWordScore(board *model.Board, word string, positions []model.Position) WordScore {
	base := BaseScore(board, positions)

	bonuses := []model.Bonus{}
	multiplier := 1

	if IsDiagonal(positions) {
		bonuses = append(bonuses, model.BonusDiagonal)
		multiplier *= bonusMultiplier
	}
	if IsPalindrome(word) {
		bonuses = append(bonuses, model.BonusPalindrome)
		multiplier *= bonusMultiplier
	}
	if s.IsEmordnilap(board, word, positions) {
		bonuses = append(bonuses, model.BonusEmordnilap)
		multiplier *= bonusMultiplier
	}

	return WordScore{
		Base:    base,
		Score:   base * multiplier,
		Bonuses: bonuses,
	}
}

// IsEmordnilap returns true if the word is valid and reading its positions in
// the opposite direction gives a different valid word
func (s *Service) IsEmordnilap(board *model.Board, word string, positions []model.Position) bool {
	upper := strings.ToUpper(word)
	if !s.dictionary.Has(upper) {
		return false
	}

	reverse, ok := detection.GetReverseWord(board, positions)
	if !ok || reverse == "" {
		return false
	}
	reverse = strings.ToUpper(reverse)

	return reverse != upper && s.dictionary.Has(reverse)
}

// BaseScore sums the point values of the tiles at the positions. Blank tiles
// are worth nothing.
func BaseScore(board *model.Board, positions []model.Position) int {
	total := 0
	for _, p := range positions {
		if tile := board.Get(p); tile != nil {
			total += tile.Points
		}
	}
	return total
}

// IsDiagonal returns true if the first and last positions differ on both axes
func IsDiagonal(positions []model.Position) bool {
	if len(positions) == 0 {
		return false
	}
	first := positions[0]
	last := positions[len(positions)-1]
	return first.X != last.X && first.Y != last.Y
}

// IsPalindrome returns true if the word reads the same backwards, ignoring
// whitespace and case
func IsPalindrome(word string) bool {
	cleaned := []rune(strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, word)))

	for i, j := 0, len(cleaned)-1; i < j; i, j = i+1, j-1 {
		if cleaned[i] != cleaned[j] {
			return false
		}
	}
	return true
}

// ServiceInterface is the scoring service's public surface
type ServiceInterface interface {
	CalculateWordScore(board *model.Board, word string, positions []model.Position) WordScore
	IsEmordnilap(board *model.Board, word string, positions []model.Position) bool
}

var _ ServiceInterface = (*Service)(nil)
