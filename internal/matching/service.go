// Package matching suggests categories for new expenses from the ones
// already recorded.
package matching

import (
	"strings"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// History is the source of previously categorized expenses.
type History interface {
	Expenses() []ledger.Expense
}

type Service struct {
	history History
}

func NewService(history History) *Service {
	return &Service{history: history}
}

// Suggest returns the category of the expense whose description best matches
// rawDescription. An exact match (ignoring case and spacing) wins; otherwise
// the longest known description contained in rawDescription is used. Ties go
// to the most recent expense. ok is false when nothing matches.
func (s *Service) Suggest(rawDescription string) (category string, ok bool) {
	needle := normalize(rawDescription)
	if needle == "" {
		return "", false
	}

	var (
		best    ledger.Expense
		bestLen int
		found   bool
	)

	for _, e := range ledger.SortByDateDesc(s.history.Expenses()) {
		known := normalize(e.Description)
		if known == "" || e.Category == "" {
			continue
		}

		if known == needle {
			return e.Category, true
		}

		if strings.Contains(needle, known) && len(known) > bestLen {
			best, bestLen, found = e, len(known), true
		}
	}

	if !found {
		return "", false
	}

	return best.Category, true
}

// SuggestOr is Suggest with a fallback category.
func (s *Service) SuggestOr(rawDescription, fallback string) string {
	if category, ok := s.Suggest(rawDescription); ok {
		return category
	}

	return fallback
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
