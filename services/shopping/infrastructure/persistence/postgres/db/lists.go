package db

import (
	"context"
	"database/sql"
	"time"
)

const insertList = `
INSERT INTO shopping_lists (id, customer_id, customer_name, status, assigned_employee_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

type InsertListParams struct {
	ID                 string
	CustomerID         string
	CustomerName       string
	Status             string
	AssignedEmployeeID sql.NullString
	CreatedAt          time.Time
}

func (q *Queries) InsertList(ctx context.Context, arg InsertListParams) error {
	_, err := q.db.ExecContext(ctx, insertList,
		arg.ID,
		arg.CustomerID,
		arg.CustomerName,
		arg.Status,
		arg.AssignedEmployeeID,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return err
}

const insertListItem = `
INSERT INTO shopping_list_items (id, shopping_list_id, product_id, product_name, product_image, unit_price, quantity, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (q *Queries) InsertListItem(ctx context.Context, arg ShoppingListItem) error {
	_, err := q.db.ExecContext(ctx, insertListItem,
		arg.ID,
		arg.ShoppingListID,
		arg.ProductID,
		arg.ProductName,
		arg.ProductImage,
		arg.UnitPrice,
		arg.Quantity,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const lockList = `
SELECT id, customer_id, customer_name, status, assigned_employee_id, created_at, updated_at
FROM shopping_lists
WHERE id = $1
FOR UPDATE`

// LockList reads a list row and holds a row lock on it until the enclosing
// transaction ends. Must be called on a *sql.Tx.
func (q *Queries) LockList(ctx context.Context, id string) (ShoppingList, error) {
	row := q.db.QueryRowContext(ctx, lockList, id)
	var l ShoppingList
	err := row.Scan(
		&l.ID,
		&l.CustomerID,
		&l.CustomerName,
		&l.Status,
		&l.AssignedEmployeeID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

const getListItems = `
SELECT id, shopping_list_id, product_id, product_name, product_image, unit_price, quantity, status, created_at, updated_at
FROM shopping_list_items
WHERE shopping_list_id = $1
ORDER BY created_at, id`

func (q *Queries) GetListItems(ctx context.Context, listID string) ([]ShoppingListItem, error) {
	rows, err := q.db.QueryContext(ctx, getListItems, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var items []ShoppingListItem
	for rows.Next() {
		var i ShoppingListItem
		if err := rows.Scan(
			&i.ID,
			&i.ShoppingListID,
			&i.ProductID,
			&i.ProductName,
			&i.ProductImage,
			&i.UnitPrice,
			&i.Quantity,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateListStatus = `
UPDATE shopping_lists
SET status = $2, updated_at = $3
WHERE id = $1`

type UpdateListStatusParams struct {
	ID        string
	Status    string
	UpdatedAt time.Time
}

func (q *Queries) UpdateListStatus(ctx context.Context, arg UpdateListStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateListStatus, arg.ID, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateItemStatus = `
UPDATE shopping_list_items
SET status = $3, updated_at = $4
WHERE id = $1 AND shopping_list_id = $2`

type UpdateItemStatusParams struct {
	ID        string
	ListID    string
	Status    string
	UpdatedAt time.Time
}

func (q *Queries) UpdateItemStatus(ctx context.Context, arg UpdateItemStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateItemStatus, arg.ID, arg.ListID, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const selectListsWithItems = `
SELECT l.id, l.customer_id, l.customer_name, l.status, l.assigned_employee_id, l.created_at, l.updated_at,
       i.id, i.product_id, i.product_name, i.product_image, i.unit_price, i.quantity, i.status, i.created_at, i.updated_at
FROM shopping_lists l
JOIN shopping_list_items i ON i.shopping_list_id = l.id`

const orderListsWithItems = `
ORDER BY l.created_at DESC, l.id, i.created_at, i.id`

const listWithItems = selectListsWithItems + `
WHERE l.id = $1` + orderListsWithItems

func (q *Queries) ListWithItems(ctx context.Context, id string) ([]ListItemRow, error) {
	return q.queryListItemRows(ctx, listWithItems, id)
}

const listsWithItemsByCustomer = selectListsWithItems + `
WHERE l.customer_id = $1
  AND ($2::boolean IS FALSE OR l.status <> 'completed')` + orderListsWithItems

func (q *Queries) ListsWithItemsByCustomer(ctx context.Context, customerID string, activeOnly bool) ([]ListItemRow, error) {
	return q.queryListItemRows(ctx, listsWithItemsByCustomer, customerID, activeOnly)
}

const listsWithItemsByEmployee = selectListsWithItems + `
WHERE l.assigned_employee_id = $1
  AND ($2::boolean IS FALSE OR l.status <> 'completed')` + orderListsWithItems

func (q *Queries) ListsWithItemsByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]ListItemRow, error) {
	return q.queryListItemRows(ctx, listsWithItemsByEmployee, employeeID, activeOnly)
}

const listsWithItemsAll = selectListsWithItems + `
WHERE ($1::boolean IS FALSE OR l.status <> 'completed')` + orderListsWithItems

func (q *Queries) ListsWithItemsAll(ctx context.Context, activeOnly bool) ([]ListItemRow, error) {
	return q.queryListItemRows(ctx, listsWithItemsAll, activeOnly)
}

func (q *Queries) queryListItemRows(ctx context.Context, query string, args ...interface{}) ([]ListItemRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []ListItemRow
	for rows.Next() {
		var r ListItemRow
		if err := rows.Scan(
			&r.List.ID,
			&r.List.CustomerID,
			&r.List.CustomerName,
			&r.List.Status,
			&r.List.AssignedEmployeeID,
			&r.List.CreatedAt,
			&r.List.UpdatedAt,
			&r.Item.ID,
			&r.Item.ProductID,
			&r.Item.ProductName,
			&r.Item.ProductImage,
			&r.Item.UnitPrice,
			&r.Item.Quantity,
			&r.Item.Status,
			&r.Item.CreatedAt,
			&r.Item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		r.Item.ShoppingListID = r.List.ID
		out = append(out, r)
	}
	return out, rows.Err()
}
