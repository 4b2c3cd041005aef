package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kantin/internal/ledger/domain"
	productrepo "github.com/smallbiznis/kantin/internal/product/repository"
	"github.com/smallbiznis/kantin/internal/recordstore"
)

type repo struct {
	store *recordstore.Store
}

func Provide(store *recordstore.Store) domain.Repository {
	return &repo{store: store}
}

func (r *repo) List(ctx context.Context) ([]domain.Transaction, error) {
	_ = ctx
	table, err := r.store.Load(recordstore.KindTransactions)
	if err != nil {
		return nil, err
	}
	transactions, err := decodeTable(table)
	if err != nil {
		return nil, err
	}

	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].CreatedAt.Equal(transactions[j].CreatedAt) {
			return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions, nil
}

func (r *repo) RecordSale(ctx context.Context, draft domain.SaleDraft) (domain.SellResult, error) {
	_ = ctx
	var result domain.SellResult

	err := r.store.Update(func(tx *recordstore.Tx) error {
		products, err := productrepo.LoadTx(tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range products {
			if products[i].BarcodeID == draft.BarcodeID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrProductNotFound
		}

		product := products[idx]
		if draft.Quantity > product.Stock {
			return domain.ErrInsufficientStock
		}

		unitPrice := product.SellPrice
		if draft.UnitPriceOverride != nil {
			unitPrice = *draft.UnitPriceOverride
		}

		transaction := domain.Transaction{
			ID:          draft.ID,
			BarcodeID:   product.BarcodeID,
			ProductName: product.Name,
			Quantity:    draft.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  int64(draft.Quantity) * unitPrice,
			Profit:      int64(draft.Quantity) * (unitPrice - product.CostPrice),
			CreatedAt:   draft.CreatedAt,
		}

		product.Stock -= draft.Quantity
		product.UpdatedAt = draft.CreatedAt
		products[idx] = product
		if err := productrepo.StageTx(tx, products); err != nil {
			return err
		}

		table, err := tx.Load(recordstore.KindTransactions)
		if err != nil {
			return err
		}
		table.Rows = append(table.Rows, encodeRow(transaction))
		if err := tx.Stage(recordstore.KindTransactions, table); err != nil {
			return err
		}

		result = domain.SellResult{
			Transaction:    transaction,
			RemainingStock: product.Stock,
		}
		return nil
	})
	if err != nil {
		return domain.SellResult{}, err
	}
	return result, nil
}

func decodeTable(table recordstore.Table) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		t, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("transactions row %d: %v: %w", i, err, recordstore.ErrCorruptData)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func encodeRow(t domain.Transaction) []string {
	return []string{
		t.ID.String(),
		t.BarcodeID,
		t.ProductName,
		strconv.Itoa(t.Quantity),
		strconv.FormatInt(t.UnitPrice, 10),
		strconv.FormatInt(t.TotalPrice, 10),
		strconv.FormatInt(t.Profit, 10),
		t.CreatedAt.Format(time.RFC3339),
	}
}

func decodeRow(row []string) (domain.Transaction, error) {
	id, err := snowflake.ParseString(row[0])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("id: %v", err)
	}
	quantity, err := strconv.Atoi(row[3])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("quantity: %v", err)
	}
	unitPrice, err := strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("unit_price: %v", err)
	}
	totalPrice, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("total_price: %v", err)
	}
	profit, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("profit: %v", err)
	}
	createdAt, err := time.Parse(time.RFC3339, row[7])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("created_at: %v", err)
	}

	return domain.Transaction{
		ID:          id,
		BarcodeID:   row[1],
		ProductName: row[2],
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		Profit:      profit,
		CreatedAt:   createdAt,
	}, nil
}
