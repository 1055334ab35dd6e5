// Package calculator is a four-function decimal calculator with a short
// history of completed calculations.
package calculator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// HistorySize is how many completed calculations are kept, newest first.
const HistorySize = 10

var ErrDivisionByZero = errors.New("division by zero")

type Op string

const (
	OpAdd      Op = "+"
	OpSubtract Op = "-"
	OpMultiply Op = "×"
	OpDivide   Op = "÷"
	// OpPercent computes prev * current / 100.
	OpPercent Op = "%"
)

var hundred = decimal.NewFromInt(100)

type Calculator struct {
	display string
	prev    *decimal.Decimal
	op      Op
	history []string
}

func New() *Calculator {
	return &Calculator{display: "0"}
}

func (c *Calculator) Display() string {
	return c.display
}

// Pending returns the operand and operator waiting for a second operand.
func (c *Calculator) Pending() (decimal.Decimal, Op, bool) {
	if c.prev == nil {
		return decimal.Zero, "", false
	}

	return *c.prev, c.op, true
}

func (c *Calculator) History() []string {
	return slices.Clone(c.history)
}

// Input appends a digit or the decimal point to the display.
func (c *Calculator) Input(r rune) {
	switch {
	case r == '.':
		if !strings.Contains(c.display, ".") {
			c.display += "."
		}
	case r >= '0' && r <= '9':
		if c.display == "0" {
			c.display = string(r)
		} else {
			c.display += string(r)
		}
	}
}

// Backspace removes the last character of the display.
func (c *Calculator) Backspace() {
	if len(c.display) <= 1 || (len(c.display) == 2 && c.display[0] == '-') {
		c.display = "0"
		return
	}

	c.display = c.display[:len(c.display)-1]
}

// Apply sets op as the pending operator. A pending calculation is completed
// first, so chained operators evaluate left to right.
func (c *Calculator) Apply(op Op) error {
	if c.prev != nil && c.op != "" {
		if err := c.Equals(); err != nil {
			return err
		}
	}

	current, err := c.current()
	if err != nil {
		return err
	}

	c.prev = &current
	c.op = op
	c.display = "0"

	return nil
}

// Equals completes the pending calculation and records it in the history.
// Without a pending operator it does nothing.
func (c *Calculator) Equals() error {
	if c.prev == nil || c.op == "" {
		return nil
	}

	current, err := c.current()
	if err != nil {
		return err
	}

	prev := *c.prev

	result, err := compute(prev, c.op, current)
	if err != nil {
		c.Clear()
		return err
	}

	entry := fmt.Sprintf("%s %s %s = %s", prev, c.op, current, result)
	c.history = append([]string{entry}, c.history...)

	if len(c.history) > HistorySize {
		c.history = c.history[:HistorySize]
	}

	c.display = result.String()
	c.prev = nil
	c.op = ""

	return nil
}

// Clear resets the display and any pending operation. History is kept.
func (c *Calculator) Clear() {
	c.display = "0"
	c.prev = nil
	c.op = ""
}

func (c *Calculator) ClearHistory() {
	c.history = nil
}

func (c *Calculator) current() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.display)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing display %q: %w", c.display, err)
	}

	return d, nil
}

func compute(a decimal.Decimal, op Op, b decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case OpAdd:
		return a.Add(b), nil
	case OpSubtract:
		return a.Sub(b), nil
	case OpMultiply:
		return a.Mul(b), nil
	case OpDivide:
		if b.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}

		return a.Div(b), nil
	case OpPercent:
		return a.Mul(b).Div(hundred), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown operator %q", op)
	}
}
