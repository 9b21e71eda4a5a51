package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/clickcollect/pkg/database"
	pkgevents "github.com/ghuser/clickcollect/pkg/events"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
	"github.com/ghuser/clickcollect/services/shopping/infrastructure/persistence/postgres/db"
)

// Outbox opens a Watermill publisher that writes into an open transaction.
// *events.EventBus implements it.
type Outbox interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// ListRepository implements repositories.ListRepository against PostgreSQL.
type ListRepository struct {
	db     *database.Database
	outbox Outbox
}

var _ repositories.ListRepository = (*ListRepository)(nil)

// NewListRepository returns a ListRepository backed by the given handle.
// Events are written through outbox in the same transaction as the list;
// a nil outbox drops them.
func NewListRepository(database *database.Database, outbox Outbox) *ListRepository {
	return &ListRepository{db: database, outbox: outbox}
}

// Create inserts the list row, every item row and the outbox messages in one
// transaction. Any failure rolls the whole write back.
func (r *ListRepository) Create(ctx context.Context, list *models.ShoppingList, evts ...events.Envelope) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertList(ctx, db.InsertListParams{
			ID:                 list.ID,
			CustomerID:         list.CustomerID,
			CustomerName:       list.CustomerName,
			Status:             list.Status.String(),
			AssignedEmployeeID: nullString(list.AssignedEmployeeID),
			CreatedAt:          list.CreatedAt,
		}); err != nil {
			return fmt.Errorf("insert list: %w", err)
		}

		for _, it := range list.Items {
			if err := q.InsertListItem(ctx, itemToRow(it)); err != nil {
				return fmt.Errorf("insert item %s: %w", it.ID, err)
			}
		}

		return r.publish(ctx, tx, evts)
	})
	return translate(err)
}

// Update locks the list row with SELECT ... FOR UPDATE, so concurrent
// updates of the same list are serialized, then persists what fn changed.
func (r *ListRepository) Update(ctx context.Context, id string, fn repositories.UpdateFunc) (*models.ShoppingList, error) {
	var list *models.ShoppingList
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		row, err := q.LockList(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", domain.ErrListNotFound, id)
			}
			return fmt.Errorf("lock list: %w", err)
		}
		items, err := q.GetListItems(ctx, id)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}

		list = rowToList(row, items)
		before := *list
		before.Items = append([]models.Item(nil), list.Items...)

		evts, err := fn(list)
		if err != nil {
			return err
		}
		if err := persistChanges(ctx, q, &before, list); err != nil {
			return err
		}
		return r.publish(ctx, tx, evts)
	})
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// Get returns a list with its items. Returns ErrListNotFound if absent.
func (r *ListRepository) Get(ctx context.Context, id string) (*models.ShoppingList, error) {
	rows, err := db.New(r.db.DB()).ListWithItems(ctx, id)
	if err != nil {
		return nil, translate(fmt.Errorf("query list: %w", database.Classify(err)))
	}
	lists := groupRows(rows)
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, id)
	}
	return lists[0], nil
}

// Find returns lists matching filter, most recent first.
func (r *ListRepository) Find(ctx context.Context, filter repositories.ListFilter) ([]*models.ShoppingList, error) {
	q := db.New(r.db.DB())

	var (
		rows []db.ListItemRow
		err  error
	)
	switch {
	case filter.CustomerID != "":
		rows, err = q.ListsWithItemsByCustomer(ctx, filter.CustomerID, filter.ActiveOnly)
	case filter.EmployeeID != "":
		rows, err = q.ListsWithItemsByEmployee(ctx, filter.EmployeeID, filter.ActiveOnly)
	default:
		rows, err = q.ListsWithItemsAll(ctx, filter.ActiveOnly)
	}
	if err != nil {
		return nil, translate(fmt.Errorf("query lists: %w", database.Classify(err)))
	}
	return groupRows(rows), nil
}

func (r *ListRepository) publish(ctx context.Context, tx *sql.Tx, evts []events.Envelope) error {
	if r.outbox == nil || len(evts) == 0 {
		return nil
	}
	p, err := r.outbox.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	for _, env := range evts {
		msg, err := pkgevents.NewMessage(ctx, env.EventID, env.Version, env.Payload)
		if err != nil {
			return err
		}
		if err := p.Publish(env.Topic, msg); err != nil {
			return fmt.Errorf("publish %s: %w", env.Topic, err)
		}
	}
	return nil
}

// persistChanges writes the item and list columns that differ between the
// loaded aggregate and its mutated version.
func persistChanges(ctx context.Context, q *db.Queries, before, after *models.ShoppingList) error {
	if len(before.Items) != len(after.Items) {
		return fmt.Errorf("%w: the item set of list %s is fixed", domain.ErrInvalidState, after.ID)
	}

	for i := range after.Items {
		it := after.Items[i]
		if it.ID != before.Items[i].ID {
			return fmt.Errorf("%w: the item set of list %s is fixed", domain.ErrInvalidState, after.ID)
		}
		if it.Status == before.Items[i].Status {
			continue
		}
		n, err := q.UpdateItemStatus(ctx, db.UpdateItemStatusParams{
			ID:        it.ID,
			ListID:    after.ID,
			Status:    it.Status.String(),
			UpdatedAt: it.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("update item %s: %w", it.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s in list %s", domain.ErrItemNotFound, it.ID, after.ID)
		}
	}

	if after.Status != before.Status || !after.UpdatedAt.Equal(before.UpdatedAt) {
		if _, err := q.UpdateListStatus(ctx, db.UpdateListStatusParams{
			ID:        after.ID,
			Status:    after.Status.String(),
			UpdatedAt: after.UpdatedAt,
		}); err != nil {
			return fmt.Errorf("update list %s: %w", after.ID, err)
		}
	}
	return nil
}

func rowToList(row db.ShoppingList, items []db.ShoppingListItem) *models.ShoppingList {
	list := &models.ShoppingList{
		ID:                 row.ID,
		CustomerID:         row.CustomerID,
		CustomerName:       row.CustomerName,
		AssignedEmployeeID: row.AssignedEmployeeID.String,
		Status:             models.ListStatus(row.Status),
		Items:              make([]models.Item, 0, len(items)),
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
	for _, it := range items {
		list.Items = append(list.Items, rowToItem(it))
	}
	return list
}

// groupRows folds joined list/item rows into aggregates, keeping row order.
func groupRows(rows []db.ListItemRow) []*models.ShoppingList {
	var (
		out   []*models.ShoppingList
		index = make(map[string]*models.ShoppingList)
	)
	for _, r := range rows {
		list, ok := index[r.List.ID]
		if !ok {
			list = rowToList(r.List, nil)
			index[r.List.ID] = list
			out = append(out, list)
		}
		list.Items = append(list.Items, rowToItem(r.Item))
	}
	return out
}

func rowToItem(row db.ShoppingListItem) models.Item {
	return models.Item{
		ID:           row.ID,
		ListID:       row.ShoppingListID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		ProductImage: row.ProductImage,
		UnitPrice:    row.UnitPrice,
		Quantity:     int(row.Quantity),
		Status:       models.ItemStatus(row.Status),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func itemToRow(it models.Item) db.ShoppingListItem {
	return db.ShoppingListItem{
		ID:             it.ID,
		ShoppingListID: it.ListID,
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		ProductImage:   it.ProductImage,
		UnitPrice:      it.UnitPrice,
		Quantity:       int32(it.Quantity), //nolint:gosec // bounded by models.MaxQuantity
		Status:         it.Status.String(),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
