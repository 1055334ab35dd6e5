package view

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const storeTimeout = 5 * time.Second

var timeNow = time.Now

// StoreCtx returns a context with a standard timeout for ledger writes.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// Align right-aligns every line of s within width for right-to-left layouts.
func Align(s string, dir ledger.Direction, width int) string {
	if dir != ledger.DirectionRTL || width <= 0 {
		return s
	}

	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(s)
}

// Bar renders a horizontal bar of width cells filled to fraction (0..1).
func Bar(fraction float64, width int, color lipgloss.Color) string {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}

	filled := int(math.Round(math.Min(fraction, 1) * float64(width)))

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", width-filled))
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("must be greater than zero")
	}

	return d, nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", strings.ToLower(field))
		}

		return nil
	}
}

func validateDate(s string) error {
	if _, err := ledger.ParseDate(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
