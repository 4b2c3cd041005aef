package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SaleDraft is a validated sale the repository turns into a stock decrement
// plus an appended transaction row in one commit.
type SaleDraft struct {
	ID                snowflake.ID
	BarcodeID         string
	Quantity          int
	UnitPriceOverride *int64
	CreatedAt         time.Time
}

type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	// RecordSale checks stock under the store's write lock, decrements it and
	// appends the transaction so both changes become visible together or not
	// at all. Fails with ErrProductNotFound or ErrInsufficientStock.
	RecordSale(ctx context.Context, draft SaleDraft) (SellResult, error)
}
