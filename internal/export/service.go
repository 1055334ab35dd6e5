// Package export writes expenses out as CSV and the whole ledger as a JSON
// backup that can be restored later.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

// BackupVersion is written into every backup; Restore rejects other versions.
const BackupVersion = 1

// CSVHeader is also accepted by the generic importer.
var CSVHeader = []string{"date", "description", "category", "amount", "notes", "budget"}

// Store is the part of ledger.Store the exporter reads and restores into.
type Store interface {
	Snapshot() ledger.Snapshot
	Replace(ctx context.Context, snap ledger.Snapshot) error
}

// Filter narrows the exported expenses. Zero fields match everything; From
// and To are inclusive calendar days.
type Filter struct {
	From     time.Time
	To       time.Time
	Category string
	BudgetID string
}

func (f Filter) Match(e ledger.Expense) bool {
	if !f.From.IsZero() && e.Date.Before(ledger.DateOf(f.From).Time) {
		return false
	}

	if !f.To.IsZero() && e.Date.After(ledger.DateOf(f.To).Time) {
		return false
	}

	if f.Category != "" && e.Category != f.Category {
		return false
	}

	if f.BudgetID != "" && e.BudgetID != f.BudgetID {
		return false
	}

	return true
}

// Backup is the on-disk backup document.
type Backup struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	ledger.Snapshot
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Expenses returns the expenses matching f, oldest first.
func (s *Service) Expenses(f Filter) []ledger.Expense {
	snap := s.store.Snapshot()

	out := make([]ledger.Expense, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b ledger.Expense) int {
		return a.Date.Compare(b.Date.Time)
	})

	return out
}

// WriteCSV writes the expenses matching f to w and returns how many rows
// were written. The budget column holds the budget name, or the raw id when
// the budget no longer exists.
func (s *Service) WriteCSV(w io.Writer, f Filter) (int, error) {
	snap := s.store.Snapshot()

	names := make(map[string]string, len(snap.Budgets))
	for _, b := range snap.Budgets {
		names[b.ID] = b.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	expenses := s.Expenses(f)

	for _, e := range expenses {
		budget := e.BudgetID
		if name, ok := names[e.BudgetID]; ok {
			budget = name
		}

		record := []string{e.Date.String(), e.Description, e.Category, e.Amount.StringFixed(2), e.Notes, budget}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(expenses), nil
}

// ExportCSV writes expenses_<YYYYMMDD>.csv into dir.
func (s *Service) ExportCSV(dir string, f Filter) (string, int, error) {
	name := fmt.Sprintf("expenses_%s.csv", s.now().Format("20060102"))

	var n int

	path, err := s.writeFile(dir, name, func(w io.Writer) error {
		var err error
		n, err = s.WriteCSV(w, f)

		return err
	})
	if err != nil {
		return "", 0, err
	}

	return path, n, nil
}

// WriteBackup writes every collection to w as one JSON document.
func (s *Service) WriteBackup(w io.Writer) error {
	doc := Backup{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Snapshot:   s.store.Snapshot(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Backup writes pocketbook_backup_<YYYYMMDD_HHMMSS>.json into dir.
func (s *Service) Backup(dir string) (string, error) {
	name := fmt.Sprintf("pocketbook_backup_%s.json", s.now().Format("20060102_150405"))

	return s.writeFile(dir, name, s.WriteBackup)
}

// Restore replaces the whole ledger with the backup read from r. Settings
// missing from the backup fall back to the defaults.
func (s *Service) Restore(ctx context.Context, r io.Reader) (ledger.Snapshot, error) {
	defaults := ledger.DefaultSettings()
	doc := Backup{Snapshot: ledger.Snapshot{Settings: defaults}}

	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("decoding backup: %w", err)
	}

	if doc.Version != BackupVersion {
		return ledger.Snapshot{}, fmt.Errorf("unsupported backup version %d", doc.Version)
	}

	if err := validate(doc.Snapshot); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("invalid backup: %w", err)
	}

	reconcileSpent(doc.Snapshot)

	if err := s.store.Replace(ctx, doc.Snapshot); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("restoring backup: %w", err)
	}

	return doc.Snapshot, nil
}

// validate rejects backups whose ids collide, since the store relies on ids
// being unique across every collection.
func validate(snap ledger.Snapshot) error {
	seen := make(map[string]struct{})

	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s without id", kind)
		}

		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate id %q", id)
		}

		seen[id] = struct{}{}

		return nil
	}

	var errs []error

	for _, e := range snap.Expenses {
		errs = append(errs, check("expense", e.ID))
	}

	for _, b := range snap.Budgets {
		errs = append(errs, check("budget", b.ID))
	}

	names := make(map[string]struct{})

	for _, c := range snap.Categories {
		errs = append(errs, check("category", c.ID))

		name := strings.ToLower(strings.TrimSpace(c.Name))
		if _, dup := names[name]; dup {
			errs = append(errs, fmt.Errorf("duplicate category name %q", c.Name))
		}

		names[name] = struct{}{}
	}

	return errors.Join(errs...)
}

// reconcileSpent sets each budget's spent to the sum of its linked expenses,
// which is what the store maintains for every later change.
func reconcileSpent(snap ledger.Snapshot) {
	linked := make(map[string]decimal.Decimal, len(snap.Budgets))

	for _, e := range snap.Expenses {
		if e.BudgetID != "" {
			linked[e.BudgetID] = linked[e.BudgetID].Add(e.Amount)
		}
	}

	for i, b := range snap.Budgets {
		spent := linked[b.ID]
		if spent.IsNegative() {
			spent = decimal.Zero
		}

		if !spent.Equal(b.Spent) {
			slog.Warn("correcting budget spent from backup", "budget", b.ID, "was", b.Spent.String(), "now", spent.String())
			snap.Budgets[i].Spent = spent
		}
	}
}

// GenerateSummary renders one line per expense followed by the total, using
// the currency and date format from settings.
func (s *Service) GenerateSummary(expenses []ledger.Expense, settings ledger.Settings) string {
	var sb strings.Builder

	total := decimal.Zero

	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			locale.Date(e.Date.Time, settings.DateFormat),
			e.Description,
			category,
			locale.Amount(e.Amount, settings.Currency),
		)

		total = total.Add(e.Amount)
	}

	fmt.Fprintf(&sb, "%s: %s (%d)\n",
		locale.T(settings.Language, locale.LabelTotal),
		locale.Amount(total, settings.Currency),
		len(expenses),
	)

	return sb.String()
}

func (s *Service) writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}
