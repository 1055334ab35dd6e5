// Package web holds the request decoding, validation and response helpers
// shared by the API handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const maxBodyBytes = 1 << 20

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Money and dates validate as their plain values so gte and required apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(ledger.Date); ok && !d.IsZero() {
			return d.String()
		}

		return ""
	}, ledger.Date{})

	_ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
		return hexColorRegex.MatchString(fl.Field().String())
	})

	return v
}

// Validate runs the validate struct tags on v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}

		msgs = append(msgs, msg)
	}

	return errors.New(strings.Join(msgs, "; "))
}

// Decode reads a JSON body into dst and validates it. Unknown fields are
// rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return Validate(dst)
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
