package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/pos"
)

type POSRepo struct {
	db *sql.DB
}

func NewPOSRepo(db *sql.DB) *POSRepo {
	return &POSRepo{db: db}
}

func (r *POSRepo) CreateTransaction(ctx context.Context, t pos.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pos_transactions (
			id, code, operator_id,
			subtotal_cents, tax_cents, total_cents,
			payment_method, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		t.ID,
		t.Code,
		t.OperatorID,
		t.SubtotalCents,
		t.TaxCents,
		t.TotalCents,
		t.PaymentMethod,
		t.Status,
		t.CreatedAt,
	)
	return err
}

func (r *POSRepo) AddItem(ctx context.Context, it pos.TransactionItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pos_transaction_items (
			id, transaction_id,
			item_id, item_type, item_name,
			qty, unit_price_cents
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		it.ID,
		it.TransactionID,
		it.ItemID,
		it.ItemType,
		it.ItemName,
		it.Qty,
		it.UnitPriceCents,
	)
	return err
}

func (r *POSRepo) GetTransaction(ctx context.Context, id string) (pos.Transaction, []pos.TransactionItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pos.Transaction{}, nil, ErrNotFound
	}

	var t pos.Transaction
	err := r.db.QueryRowContext(ctx, `
		SELECT
			id, code, operator_id,
			subtotal_cents, tax_cents, total_cents,
			payment_method, status, created_at
		FROM pos_transactions
		WHERE id = $1
	`, id).Scan(
		&t.ID,
		&t.Code,
		&t.OperatorID,
		&t.SubtotalCents,
		&t.TaxCents,
		&t.TotalCents,
		&t.PaymentMethod,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return pos.Transaction{}, nil, ErrNotFound
		}
		return pos.Transaction{}, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transaction_id, item_id, item_type, item_name, qty, unit_price_cents
		FROM pos_transaction_items
		WHERE transaction_id = $1
	`, id)
	if err != nil {
		return pos.Transaction{}, nil, err
	}
	defer rows.Close()

	items := make([]pos.TransactionItem, 0)
	for rows.Next() {
		var it pos.TransactionItem
		if err := rows.Scan(
			&it.ID,
			&it.TransactionID,
			&it.ItemID,
			&it.ItemType,
			&it.ItemName,
			&it.Qty,
			&it.UnitPriceCents,
		); err != nil {
			return pos.Transaction{}, nil, err
		}
		items = append(items, it)
	}

	return t, items, rows.Err()
}

func (r *POSRepo) ListRecent(ctx context.Context, limit int) ([]pos.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, code, operator_id,
			subtotal_cents, tax_cents, total_cents,
			payment_method, status, created_at
		FROM pos_transactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pos.Transaction, 0)
	for rows.Next() {
		var t pos.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.Code,
			&t.OperatorID,
			&t.SubtotalCents,
			&t.TaxCents,
			&t.TotalCents,
			&t.PaymentMethod,
			&t.Status,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}
