package unitofwork

import (
	historystore "sabbatical-backend/lib/application-history/store"
	applicationstore "sabbatical-backend/lib/application/store"
	approvaltaskstore "sabbatical-backend/lib/approval-task/store"
	datechangestore "sabbatical-backend/lib/date-change/store"

	"gorm.io/gorm"
)

// Stores is the set of stores bound to one connection or transaction.
type Stores struct {
	Applications applicationstore.Provider
	Approvals    approvaltaskstore.Provider
	History      historystore.Provider
	DateChanges  datechangestore.Provider
}

type Provider interface {
	Stores() Stores
	// Transaction commits when fn returns nil and rolls back otherwise.
	Transaction(fn func(stores Stores) error) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{db: DB}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Stores() Stores {
	return newStores(i.db)
}

func (i impl) Transaction(fn func(stores Stores) error) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		return fn(newStores(tx))
	})
}

func newStores(tx *gorm.DB) Stores {
	return Stores{
		Applications: applicationstore.NewInstance(tx),
		Approvals:    approvaltaskstore.NewInstance(tx),
		History:      historystore.NewInstance(tx),
		DateChanges:  datechangestore.NewInstance(tx),
	}
}
