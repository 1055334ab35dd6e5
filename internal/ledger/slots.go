package ledger

import (
	"context"
)

// Collection names one independently persisted slot.
type Collection string

const (
	CollectionExpenses   Collection = "expenses"
	CollectionBudgets    Collection = "budgets"
	CollectionCategories Collection = "categories"
	CollectionSettings   Collection = "settings"
)

// Collections lists every slot in load order.
var Collections = []Collection{
	CollectionExpenses,
	CollectionBudgets,
	CollectionCategories,
	CollectionSettings,
}

// Slots is the durable key-value storage the Store persists into.
// Load reports ok=false when the slot has never been written.
//
//go:generate mockgen -source=slots.go -destination=slots_mock.go -package=ledger
type Slots interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}
