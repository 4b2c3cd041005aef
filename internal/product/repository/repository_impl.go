package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/smallbiznis/kantin/internal/product/domain"
	"github.com/smallbiznis/kantin/internal/recordstore"
)

type repo struct {
	store *recordstore.Store
}

func Provide(store *recordstore.Store) domain.Repository {
	return &repo{store: store}
}

func (r *repo) List(ctx context.Context) ([]domain.Product, error) {
	_ = ctx
	table, err := r.store.Load(recordstore.KindProducts)
	if err != nil {
		return nil, err
	}
	return decodeTable(table)
}

func (r *repo) Find(ctx context.Context, barcodeID string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].BarcodeID == barcodeID {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *repo) Insert(ctx context.Context, product domain.Product) error {
	_ = ctx
	return r.store.Update(func(tx *recordstore.Tx) error {
		products, err := LoadTx(tx)
		if err != nil {
			return err
		}
		for _, existing := range products {
			if existing.BarcodeID == product.BarcodeID {
				return domain.ErrDuplicateBarcode
			}
		}
		return StageTx(tx, append(products, product))
	})
}

func (r *repo) Mutate(ctx context.Context, barcodeID string, fn func(*domain.Product) error) (domain.Product, error) {
	_ = ctx
	var mutated domain.Product
	err := r.store.Update(func(tx *recordstore.Tx) error {
		products, err := LoadTx(tx)
		if err != nil {
			return err
		}
		for i := range products {
			if products[i].BarcodeID == barcodeID {
				if err := fn(&products[i]); err != nil {
					return err
				}
				mutated = products[i]
				return StageTx(tx, products)
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return domain.Product{}, err
	}
	return mutated, nil
}

func (r *repo) Delete(ctx context.Context, barcodeID string) error {
	_ = ctx
	return r.store.Update(func(tx *recordstore.Tx) error {
		products, err := LoadTx(tx)
		if err != nil {
			return err
		}
		for i := range products {
			if products[i].BarcodeID == barcodeID {
				return StageTx(tx, append(products[:i], products[i+1:]...))
			}
		}
		return domain.ErrNotFound
	})
}

// LoadTx decodes the staged product table inside a store update. It is shared
// with the ledger repository, which mutates stock and appends a transaction
// row in the same commit.
func LoadTx(tx *recordstore.Tx) ([]domain.Product, error) {
	table, err := tx.Load(recordstore.KindProducts)
	if err != nil {
		return nil, err
	}
	return decodeTable(table)
}

// StageTx stages the full product table inside a store update.
func StageTx(tx *recordstore.Tx, products []domain.Product) error {
	table := recordstore.NewTable(recordstore.KindProducts)
	table.Rows = make([][]string, 0, len(products))
	for _, p := range products {
		table.Rows = append(table.Rows, encodeRow(p))
	}
	return tx.Stage(recordstore.KindProducts, table)
}

func decodeTable(table recordstore.Table) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(table.Rows))
	for i, row := range table.Rows {
		p, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("products row %d: %v: %w", i, err, recordstore.ErrCorruptData)
		}
		products = append(products, p)
	}
	return products, nil
}

func encodeRow(p domain.Product) []string {
	return []string{
		p.BarcodeID,
		p.Name,
		string(p.Category),
		strconv.Itoa(p.Stock),
		strconv.FormatInt(p.CostPrice, 10),
		strconv.FormatInt(p.SellPrice, 10),
		encodeTime(p.CreatedAt),
		encodeTime(p.UpdatedAt),
	}
}

func decodeRow(row []string) (domain.Product, error) {
	stock, err := strconv.Atoi(row[3])
	if err != nil {
		return domain.Product{}, fmt.Errorf("stock: %v", err)
	}
	costPrice, err := strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("cost_price: %v", err)
	}
	sellPrice, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("sell_price: %v", err)
	}
	category, err := domain.ParseCategory(row[2])
	if err != nil {
		return domain.Product{}, fmt.Errorf("category %q", row[2])
	}
	createdAt, err := decodeTime(row[6])
	if err != nil {
		return domain.Product{}, fmt.Errorf("created_at: %v", err)
	}
	updatedAt, err := decodeTime(row[7])
	if err != nil {
		return domain.Product{}, fmt.Errorf("updated_at: %v", err)
	}

	return domain.Product{
		BarcodeID: row[0],
		Name:      row[1],
		Category:  category,
		Stock:     stock,
		CostPrice: costPrice,
		SellPrice: sellPrice,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func decodeTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
