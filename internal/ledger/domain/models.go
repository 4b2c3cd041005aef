package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Transaction is one completed sale. Rows are append-only: they are never
// updated or deleted, and they survive deletion of the product they
// reference.
type Transaction struct {
	ID          snowflake.ID `json:"id"`
	BarcodeID   string       `json:"barcode_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   int64        `json:"unit_price"`
	TotalPrice  int64        `json:"total_price"`
	Profit      int64        `json:"profit"`
	CreatedAt   time.Time    `json:"created_at"`
}
