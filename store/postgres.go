package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fooddash/models"
)

// Postgres implements the storefront DataStore on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, price::text, COALESCE(rating, ''), COALESCE(image, '')
		FROM products
		WHERE available = true
		ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			id            int64
			name, rating  string
			priceStr, img string
		)
		if err := rows.Scan(&id, &name, &priceStr, &rating, &img); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price for product %d: %w", id, err)
		}
		products = append(products, models.Product{
			ID:     id,
			Name:   name,
			Price:  price,
			Rating: rating,
			Image:  img,
		})
	}
	return products, rows.Err()
}

func (p *Postgres) InsertOrder(ctx context.Context, payload models.OrderPayload) error {
	itemsJSON, err := json.Marshal(payload.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO orders (customer_name, phone, address, items, total_amount)
		VALUES ($1, $2, $3, $4, $5)`,
		payload.CustomerName, payload.Phone, payload.Address, itemsJSON, payload.TotalAmount.StringFixed(2),
	)
	return err
}

func (p *Postgres) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, customer_name, phone, address, items, total_amount::text, created_at
		FROM orders
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o         models.Order
			itemsJSON []byte
			totalStr  string
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &itemsJSON, &totalStr, &o.CreatedAt); err != nil {
			return nil, err
		}
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
				return nil, fmt.Errorf("unmarshal items for order %d: %w", o.ID, err)
			}
		}
		total, err := decimal.NewFromString(totalStr)
		if err != nil {
			return nil, fmt.Errorf("parse total for order %d: %w", o.ID, err)
		}
		o.TotalAmount = total
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
