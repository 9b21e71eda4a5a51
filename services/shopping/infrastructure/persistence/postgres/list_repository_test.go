package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"os"
	"regexp"
	"syscall"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
	domainservices "github.com/ghuser/clickcollect/services/shopping/domain/services"
)

// recordingOutbox captures messages published inside a transaction.
type recordingOutbox struct {
	topics []string
}

func (o *recordingOutbox) NewTxPublisher(_ *sql.Tx) (message.Publisher, error) {
	return o, nil
}

func (o *recordingOutbox) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		o.topics = append(o.topics, topic)
	}
	return nil
}

func (o *recordingOutbox) Close() error { return nil }

var (
	listColumns = []string{"id", "customer_id", "customer_name", "status", "assigned_employee_id", "created_at", "updated_at"}
	itemColumns = []string{"id", "shopping_list_id", "product_id", "product_name", "product_image", "unit_price", "quantity", "status", "created_at", "updated_at"}
	joinColumns = append(append([]string{}, listColumns...),
		"item_id", "product_id", "product_name", "product_image", "unit_price", "quantity", "item_status", "item_created_at", "item_updated_at")
)

func newMock(t *testing.T) (*database.Database, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return database.New(sqlDB), mock
}

func sampleList(t *testing.T) *models.ShoppingList {
	t.Helper()
	list, err := models.NewShoppingList("c1", "John Customer", "2", []models.Line{
		{Product: models.Product{ID: "1", Name: "Fresh Milk", Image: "/images/milk.jpg", Price: decimal.RequireFromString("1.50")}, Quantity: 2},
		{Product: models.Product{ID: "3", Name: "Bananas", Image: "/images/bananas.jpg", Price: decimal.RequireFromString("1.20")}, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("NewShoppingList: %v", err)
	}
	return list
}

func TestListRepository_Create(t *testing.T) {
	t.Run("writes list, items and event in one transaction", func(t *testing.T) {
		dbh, mock := newMock(t)
		outbox := &recordingOutbox{}
		repo := NewListRepository(dbh, outbox)
		list := sampleList(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_lists")).
			WithArgs(list.ID, "c1", "John Customer", "pending", sql.NullString{String: "2", Valid: true}, list.CreatedAt, list.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for range list.Items {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_list_items")).WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		if err := repo.Create(context.Background(), list, events.ListCreated(list)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
		if len(outbox.topics) != 1 || outbox.topics[0] != events.TopicListCreated {
			t.Fatalf("unexpected published topics: %v", outbox.topics)
		}
	})

	t.Run("item failure rolls back the list row", func(t *testing.T) {
		dbh, mock := newMock(t)
		outbox := &recordingOutbox{}
		repo := NewListRepository(dbh, outbox)
		list := sampleList(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_lists")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_list_items")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_list_items")).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), list, events.ListCreated(list))
		if err == nil {
			t.Fatal("expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("transaction must be rolled back, not committed: %v", err)
		}
		if len(outbox.topics) != 0 {
			t.Fatalf("no event may be published for a failed create, got %v", outbox.topics)
		}
	})

	t.Run("foreign key violation is invalid input", func(t *testing.T) {
		dbh, mock := newMock(t)
		repo := NewListRepository(dbh, nil)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shopping_lists")).WillReturnError(&pgconn.PgError{Code: "23503"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), sampleList(t))
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func lockedRows(list *models.ShoppingList) (*sqlmock.Rows, *sqlmock.Rows) {
	l := sqlmock.NewRows(listColumns).
		AddRow(list.ID, list.CustomerID, list.CustomerName, list.Status.String(), list.AssignedEmployeeID, list.CreatedAt, list.UpdatedAt)
	items := sqlmock.NewRows(itemColumns)
	for _, it := range list.Items {
		items.AddRow(it.ID, list.ID, it.ProductID, it.ProductName, it.ProductImage, it.UnitPrice.String(), it.Quantity, it.Status.String(), it.CreatedAt, it.UpdatedAt)
	}
	return l, items
}

func TestListRepository_Update(t *testing.T) {
	t.Run("persists item and list changes with event", func(t *testing.T) {
		dbh, mock := newMock(t)
		outbox := &recordingOutbox{}
		repo := NewListRepository(dbh, outbox)
		list := sampleList(t)
		itemID := list.Items[0].ID

		listRows, itemRows := lockedRows(list)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(list.ID).WillReturnRows(listRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_list_items")).WithArgs(list.ID).WillReturnRows(itemRows)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE shopping_list_items")).
			WithArgs(itemID, list.ID, "collected", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE shopping_lists")).
			WithArgs(list.ID, "in_progress", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := repo.Update(context.Background(), list.ID, func(l *models.ShoppingList) ([]events.Envelope, error) {
			if _, err := domainservices.SetItemStatus(l, itemID, models.ItemCollected, time.Now().UTC()); err != nil {
				return nil, err
			}
			return []events.Envelope{events.ItemAdjudicated(l, l.Item(itemID))}, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.ListInProgress || got.Items[0].Status != models.ItemCollected {
			t.Fatalf("unexpected result: status=%s item=%s", got.Status, got.Items[0].Status)
		}
		if !got.Items[0].UnitPrice.Equal(decimal.RequireFromString("1.50")) {
			t.Fatalf("unit price = %s", got.Items[0].UnitPrice)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
		if len(outbox.topics) != 1 || outbox.topics[0] != events.TopicItemAdjudicated {
			t.Fatalf("unexpected topics: %v", outbox.topics)
		}
	})

	t.Run("unchanged aggregate writes nothing", func(t *testing.T) {
		dbh, mock := newMock(t)
		repo := NewListRepository(dbh, &recordingOutbox{})
		list := sampleList(t)

		listRows, itemRows := lockedRows(list)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(listRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_list_items")).WillReturnRows(itemRows)
		mock.ExpectCommit()

		if _, err := repo.Update(context.Background(), list.ID, func(*models.ShoppingList) ([]events.Envelope, error) {
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("missing list is not found and rolls back", func(t *testing.T) {
		dbh, mock := newMock(t)
		repo := NewListRepository(dbh, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("nope").WillReturnRows(sqlmock.NewRows(listColumns))
		mock.ExpectRollback()

		called := false
		_, err := repo.Update(context.Background(), "nope", func(*models.ShoppingList) ([]events.Envelope, error) {
			called = true
			return nil, nil
		})
		if !errors.Is(err, domain.ErrListNotFound) {
			t.Fatalf("expected ErrListNotFound, got %v", err)
		}
		if called {
			t.Fatal("update func must not run for a missing list")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("domain error rolls back", func(t *testing.T) {
		dbh, mock := newMock(t)
		repo := NewListRepository(dbh, nil)
		list := sampleList(t)

		listRows, itemRows := lockedRows(list)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(listRows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM shopping_list_items")).WillReturnRows(itemRows)
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), list.ID, func(l *models.ShoppingList) ([]events.Envelope, error) {
			return nil, domainservices.CompleteList(l, time.Now())
		})
		if !errors.Is(err, domain.ErrPreconditionFailed) {
			t.Fatalf("expected ErrPreconditionFailed, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("serialization failure is a conflict", func(t *testing.T) {
		dbh, mock := newMock(t)
		repo := NewListRepository(dbh, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnError(&pgconn.PgError{Code: "40P01"})
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), "l1", func(*models.ShoppingList) ([]events.Envelope, error) {
			return nil, nil
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestListRepository_Find(t *testing.T) {
	dbh, mock := newMock(t)
	repo := NewListRepository(dbh, nil)

	newer := time.Date(2025, 9, 21, 11, 30, 0, 0, time.UTC)
	older := time.Date(2025, 9, 21, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(joinColumns).
		AddRow("l2", "3", "Bob Customer", "pending", "2", newer, newer, "i4", "2", "White Bread", "/images/bread.jpg", "0.90", 2, "pending", newer, newer).
		AddRow("l1", "1", "John Customer", "in_progress", "2", older, older, "i1", "1", "Fresh Milk", "/images/milk.jpg", "1.50", 2, "collected", older, older).
		AddRow("l1", "1", "John Customer", "in_progress", "2", older, older, "i2", "3", "Bananas", "/images/bananas.jpg", "1.20", 1, "pending", older, older)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.assigned_employee_id = $1")).WithArgs("2", true).WillReturnRows(rows)

	lists, err := repo.Find(context.Background(), repositories.ListFilter{EmployeeID: "2", ActiveOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].ID != "l2" || lists[1].ID != "l1" {
		t.Fatalf("order must follow the query: got %s, %s", lists[0].ID, lists[1].ID)
	}
	if len(lists[1].Items) != 2 || lists[1].Items[0].ID != "i1" || lists[1].Items[1].ID != "i2" {
		t.Fatalf("unexpected items: %+v", lists[1].Items)
	}
	if lists[1].Items[0].ListID != "l1" {
		t.Fatalf("item list id = %q", lists[1].Items[0].ListID)
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.customer_id = $1")).WithArgs("1", true).WillReturnRows(sqlmock.NewRows(joinColumns))
	if _, err := repo.Find(context.Background(), repositories.ListFilter{CustomerID: "1", ActiveOnly: true}); err != nil {
		t.Fatalf("customer filter: %v", err)
	}
}

func TestListRepository_Get(t *testing.T) {
	t.Run("absent list", func(t *testing.T) {
		dbh, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1")).WithArgs("nope").WillReturnRows(sqlmock.NewRows(joinColumns))

		_, err := NewListRepository(dbh, nil).Get(context.Background(), "nope")
		if !errors.Is(err, domain.ErrListNotFound) {
			t.Fatalf("expected ErrListNotFound, got %v", err)
		}
	})

	t.Run("refused connection is unavailable", func(t *testing.T) {
		dbh, mock := newMock(t)
		refused := &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
		mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1")).WillReturnError(refused)

		_, err := NewListRepository(dbh, nil).Get(context.Background(), "l1")
		if !errors.Is(err, domain.ErrUnavailable) || !errors.Is(err, database.ErrConnRefused) {
			t.Fatalf("expected unavailable/refused, got %v", err)
		}
	})
}
