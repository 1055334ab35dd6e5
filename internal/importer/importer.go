package importer

import (
	"io"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// Format names a supported statement layout.
type Format string

const (
	FormatCGD     Format = "cgd"
	FormatGeneric Format = "generic"
)

// Formats lists the supported layouts in display order.
var Formats = []Format{FormatGeneric, FormatCGD}

// Parser turns a UTF-8 statement into expense drafts. Credits are skipped.
// Drafts carry no category; the Service fills it in.
type Parser interface {
	Parse(r io.Reader) ([]ledger.ExpenseDraft, error)
}
