package scoring

import (
	"testing"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	words   testutil.Words
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.words = testutil.NewWords("CAT", "TIN", "NIT", "NUN", "POP", "TAB", "BAT")
	s.service = New(s.words)
}

func (s *ServiceSuite) TestPlainWord() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		"...C...",
		"...A...",
		"...T...",
	)

	result := s.service.CalculateWordScore(board, "CAT", testutil.Column(3, 4, 6))

	s.Equal(5, result.Base)
	s.Equal(5, result.Score)
	s.Empty(result.Bonuses)
}

func (s *ServiceSuite) TestEmordnilapDoubles() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		"T......",
		"I......",
		"N......",
	)

	result := s.service.CalculateWordScore(board, "TIN", testutil.Column(0, 4, 6))

	s.Equal(3, result.Base)
	s.Equal(6, result.Score)
	s.Equal([]model.Bonus{model.BonusEmordnilap}, result.Bonuses)
}

func (s *ServiceSuite) TestPalindromeIsNotEmordnilap() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		".......",
		".......",
		"POP....",
	)

	result := s.service.CalculateWordScore(board, "POP", testutil.Row(6, 0, 2))

	s.Equal(7, result.Base)
	s.Equal(14, result.Score)
	s.Equal([]model.Bonus{model.BonusPalindrome}, result.Bonuses)
}

func (s *ServiceSuite) TestDiagonalBonusesStack() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		"T......",
		".A.....",
		"..B....",
	)
	positions := []model.Position{{X: 0, Y: 4}, {X: 1, Y: 5}, {X: 2, Y: 6}}

	result := s.service.CalculateWordScore(board, "TAB", positions)

	s.Equal(5, result.Base)
	s.Equal(20, result.Score)
	s.Equal([]model.Bonus{model.BonusDiagonal, model.BonusEmordnilap}, result.Bonuses)
}

func (s *ServiceSuite) TestAllThreeBonusesInOrder() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		"N......",
		".U.....",
		"..N....",
	)
	positions := []model.Position{{X: 0, Y: 4}, {X: 1, Y: 5}, {X: 2, Y: 6}}

	result := s.service.CalculateWordScore(board, "NUN", positions)

	// NUN reversed is NUN, so no emordnilap
	s.Equal([]model.Bonus{model.BonusDiagonal, model.BonusPalindrome}, result.Bonuses)
	s.Equal(12, result.Score)
}

func (s *ServiceSuite) TestBlankScoresZero() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		".......",
		".......",
		"C?T....",
	)
	board.Get(model.Position{X: 1, Y: 6}).BlankAssigned = "A"

	result := s.service.CalculateWordScore(board, "CAT", testutil.Row(6, 0, 2))

	s.Equal(4, result.Score)
}

func (s *ServiceSuite) TestDeterministic() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		"T......",
		".A.....",
		"..B....",
	)
	positions := []model.Position{{X: 0, Y: 4}, {X: 1, Y: 5}, {X: 2, Y: 6}}

	first := s.service.CalculateWordScore(board, "TAB", positions)
	for i := 0; i < 5; i++ {
		s.Equal(first, s.service.CalculateWordScore(board, "TAB", positions))
	}
}

func (s *ServiceSuite) TestIsPalindrome() {
	s.True(IsPalindrome("POP"))
	s.True(IsPalindrome("race car"))
	s.True(IsPalindrome("Level"))
	s.False(IsPalindrome("CAT"))
}

func (s *ServiceSuite) TestIsDiagonal() {
	s.True(IsDiagonal([]model.Position{{X: 0, Y: 6}, {X: 1, Y: 5}, {X: 2, Y: 4}}))
	s.False(IsDiagonal(testutil.Row(0, 0, 2)))
	s.False(IsDiagonal(nil))
}

func (s *ServiceSuite) TestEmordnilapRequiresValidWord() {
	board := testutil.BoardFromRows(
		".......",
		".......",
		".......",
		".......",
		".......",
		".......",
		"NIT....",
	)
	s.False(s.service.IsEmordnilap(board, "XYZ", testutil.Row(6, 0, 2)))
	s.True(s.service.IsEmordnilap(board, "NIT", testutil.Row(6, 0, 2)))
}
