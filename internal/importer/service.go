package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/pocketbook/internal/encoding"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/generic"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// FallbackCategory is assigned when nothing in the history matches.
const FallbackCategory = "Other"

// Categorizer suggests a category for a raw statement description.
type Categorizer interface {
	SuggestOr(rawDescription, fallback string) string
}

// Recorder stores imported expenses.
type Recorder interface {
	AddExpense(ctx context.Context, d ledger.ExpenseDraft) (ledger.Expense, error)
}

type Service struct {
	parsers     map[Format]Parser
	categorizer Categorizer
	recorder    Recorder
}

func NewService(categorizer Categorizer, recorder Recorder) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatCGD:     cgd.NewParser(),
			FormatGeneric: generic.NewParser(),
		},
		categorizer: categorizer,
		recorder:    recorder,
	}
}

// Preview decodes r from charset ("" to detect), parses it with the given
// format and fills in missing categories. Nothing is stored.
func (s *Service) Preview(format Format, charset string, r io.Reader) ([]ledger.ExpenseDraft, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	utf8r, detected, err := encoding.DecodeAs(r, charset)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	drafts, err := parser.Parse(utf8r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", format, err)
	}

	for i := range drafts {
		if drafts[i].Category == "" {
			drafts[i].Category = s.categorizer.SuggestOr(drafts[i].Description, FallbackCategory)
		}
	}

	slog.Debug("parsed statement", "format", format, "charset", detected, "drafts", len(drafts))

	return drafts, nil
}

// Commit records drafts in order. It stops at the first failure and returns
// the expenses recorded so far.
func (s *Service) Commit(ctx context.Context, drafts []ledger.ExpenseDraft) ([]ledger.Expense, error) {
	created := make([]ledger.Expense, 0, len(drafts))

	for _, d := range drafts {
		e, err := s.recorder.AddExpense(ctx, d)
		if err != nil {
			return created, fmt.Errorf("recording %q: %w", d.Description, err)
		}

		created = append(created, e)
	}

	return created, nil
}

// Import is Preview followed by Commit.
func (s *Service) Import(ctx context.Context, format Format, charset string, r io.Reader) ([]ledger.Expense, error) {
	drafts, err := s.Preview(format, charset, r)
	if err != nil {
		return nil, err
	}

	created, err := s.Commit(ctx, drafts)
	if err != nil {
		return created, err
	}

	slog.Info("imported statement", "format", format, "expenses", len(created))

	return created, nil
}
