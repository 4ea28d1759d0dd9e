package repositories

import (
	"context"
	"fmt"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

// StockMutation receives the locked item and returns the ledger entry to
// record. Returning an error aborts the transaction with stock unchanged.
type StockMutation func(item *models.InventoryItem) (*models.InventoryTransaction, error)

type InventoryTransactionRepository interface {
	// Apply locks the item row, records the entry built by mutate and moves
	// current_stock to the entry's NewStock, all in one transaction.
	Apply(ctx context.Context, tenantID, itemID uuid.UUID, mutate StockMutation) (*models.InventoryTransaction, error)
	// Open inserts a new item and applies its first entry in the same
	// transaction, so a failed entry leaves no item behind.
	Open(ctx context.Context, item *models.InventoryItem, mutate StockMutation) (*models.InventoryTransaction, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error)
	Approve(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error)
}

type inventoryTransactionRepo struct {
	db database.DB
}

func NewInventoryTransactionRepo(db database.DB) InventoryTransactionRepository {
	return &inventoryTransactionRepo{db: db}
}

const transactionColumns = `id, tenant_id, transaction_number, inventory_item_id, transaction_type, quantity,
		unit_cost, total_cost, previous_stock, new_stock, reference_number, reference_type, notes, transaction_date,
		expiry_date, batch_number, location_from, location_to, is_approved, approved_by, approved_date`

func scanTransaction(row rowScanner) (*models.InventoryTransaction, error) {
	t := &models.InventoryTransaction{}
	err := row.Scan(&t.ID, &t.TenantID, &t.TransactionNumber, &t.InventoryItemID, &t.Type, &t.Quantity,
		&t.UnitCost, &t.TotalCost, &t.PreviousStock, &t.NewStock, &t.ReferenceNumber, &t.ReferenceType, &t.Notes,
		&t.TransactionDate, &t.ExpiryDate, &t.BatchNumber, &t.LocationFrom, &t.LocationTo,
		&t.IsApproved, &t.ApprovedBy, &t.ApprovedDate)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *inventoryTransactionRepo) Apply(ctx context.Context, tenantID, itemID uuid.UUID, mutate StockMutation) (*models.InventoryTransaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txn, err := applyLocked(ctx, tx, tenantID, itemID, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger transaction: %w", err)
	}
	return txn, nil
}

func (r *inventoryTransactionRepo) Open(ctx context.Context, item *models.InventoryItem, mutate StockMutation) (*models.InventoryTransaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertInventoryItem(ctx, tx, item); err != nil {
		return nil, err
	}
	txn, err := applyLocked(ctx, tx, item.TenantID, item.ID, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger transaction: %w", err)
	}
	return txn, nil
}

func applyLocked(ctx context.Context, tx database.DB, tenantID, itemID uuid.UUID, mutate StockMutation) (*models.InventoryTransaction, error) {
	lockQuery := `SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE
		FOR UPDATE
	`
	item, err := scanInventoryItem(tx.QueryRow(ctx, lockQuery, tenantID, itemID))
	if err != nil {
		return nil, translateErr("inventory item", err)
	}

	txn, err := mutate(item)
	if err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO inventory_transactions (id, tenant_id, transaction_number, inventory_item_id, transaction_type,
			quantity, unit_cost, total_cost, previous_stock, new_stock, reference_number, reference_type, notes,
			transaction_date, expiry_date, batch_number, location_from, location_to, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, insertQuery, txn.ID, txn.TenantID, txn.TransactionNumber, txn.InventoryItemID, txn.Type,
		txn.Quantity, txn.UnitCost, txn.TotalCost, txn.PreviousStock, txn.NewStock, txn.ReferenceNumber,
		txn.ReferenceType, txn.Notes, txn.TransactionDate, txn.ExpiryDate, txn.BatchNumber, txn.LocationFrom,
		txn.LocationTo, txn.IsApproved)
	if err != nil {
		return nil, translateErr("inventory transaction", err)
	}

	updateQuery := `
		UPDATE inventory_items
		SET current_stock = $1,
			last_restocked_date = CASE WHEN $2 THEN $3 ELSE last_restocked_date END,
			expiry_date = CASE WHEN $2 THEN COALESCE($4, expiry_date) ELSE expiry_date END,
			updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	restocked := txn.Type == models.TransactionStockIn
	_, err = tx.Exec(ctx, updateQuery, txn.NewStock, restocked, txn.TransactionDate, txn.ExpiryDate, tenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	return txn, nil
}

func (r *inventoryTransactionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1 AND id = $2
	`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, translateErr("inventory transaction", err)
	}
	return txn, nil
}

func (r *inventoryTransactionRepo) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*models.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1 AND transaction_number = $2
	`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, tenantID, number))
	if err != nil {
		return nil, translateErr("inventory transaction", err)
	}
	return txn, nil
}

// List returns ledger entries newest first.
func (r *inventoryTransactionRepo) List(ctx context.Context, tenantID uuid.UUID, filter *models.InventoryTransactionFilter) ([]*models.InventoryTransaction, error) {
	if filter == nil {
		filter = &models.InventoryTransactionFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 100
	}

	query := `SELECT ` + transactionColumns + `
		FROM inventory_transactions
		WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	n := 1

	if filter.InventoryItemID != nil {
		n++
		query += fmt.Sprintf(` AND inventory_item_id = $%d`, n)
		args = append(args, *filter.InventoryItemID)
	}
	if filter.Type != nil {
		n++
		query += fmt.Sprintf(` AND transaction_type = $%d`, n)
		args = append(args, *filter.Type)
	}
	if filter.From != nil {
		n++
		query += fmt.Sprintf(` AND transaction_date >= $%d`, n)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		n++
		query += fmt.Sprintf(` AND transaction_date <= $%d`, n)
		args = append(args, *filter.To)
	}
	if filter.PendingOnly {
		query += ` AND is_approved = FALSE`
	}

	query += fmt.Sprintf(` ORDER BY transaction_date DESC, transaction_number DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.InventoryTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// Approve marks an entry approved. Stock was already applied at insert.
func (r *inventoryTransactionRepo) Approve(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*models.InventoryTransaction, error) {
	query := `
		UPDATE inventory_transactions
		SET is_approved = TRUE, approved_by = $1, approved_date = NOW()
		WHERE tenant_id = $2 AND id = $3
		RETURNING ` + transactionColumns
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, approvedBy, tenantID, id))
	if err != nil {
		return nil, translateErr("inventory transaction", err)
	}
	return txn, nil
}
