package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
	domainsvcs "github.com/ghuser/clickcollect/services/shopping/domain/services"
)

// ItemRequest is one requested line of a new list.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateListInput carries everything CreateList needs. CustomerName defaults
// to the customer's stored name; AssignedEmployeeID defaults to the employee
// with the fewest active lists.
type CreateListInput struct {
	CustomerID         string
	CustomerName       string
	Items              []ItemRequest
	AssignedEmployeeID string
}

// Engine is the list/item state engine. Every state change runs in one
// repository transaction together with the event it produces.
type Engine struct {
	lists   repositories.ListRepository
	users   repositories.UserRepository
	catalog *CatalogService
	log     logger.Logger
	metrics *engineMetrics
	now     func() time.Time
}

// NewEngine returns an Engine. meter may be nil.
func NewEngine(
	lists repositories.ListRepository,
	users repositories.UserRepository,
	catalog *CatalogService,
	log logger.Logger,
	meter metric.Meter,
) *Engine {
	return &Engine{
		lists:   lists,
		users:   users,
		catalog: catalog,
		log:     log,
		metrics: newEngineMetrics(meter, log),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// CreateList validates the request, snapshots catalog data into the items and
// persists the list with all its items atomically.
func (e *Engine) CreateList(ctx context.Context, in CreateListInput) (*models.ShoppingList, error) {
	const op = "CreateList"

	reqs := make([]domainsvcs.Request, 0, len(in.Items))
	for _, it := range in.Items {
		reqs = append(reqs, domainsvcs.Request{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	merged, err := domainsvcs.MergeRequests(reqs)
	if err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID)
	}

	customer, err := e.userWithRole(ctx, in.CustomerID, models.RoleCustomer)
	if err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID)
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = customer.Name
	}

	employeeID, err := e.assignee(ctx, in.AssignedEmployeeID)
	if err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID, "employee_id", in.AssignedEmployeeID)
	}

	lines := make([]models.Line, 0, len(merged))
	for _, r := range merged {
		p, err := e.catalog.Product(ctx, r.ProductID)
		if err != nil {
			return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID, "product_id", r.ProductID)
		}
		lines = append(lines, models.Line{Product: *p, Quantity: r.Quantity})
	}

	list, err := models.NewShoppingList(customer.ID, name, employeeID, lines)
	if err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID)
	}

	if err := e.lists.Create(ctx, list, events.ListCreated(list)); err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", in.CustomerID, "list_id", list.ID)
	}

	e.metrics.listsCreated.Add(ctx, 1)
	e.log.InfoContext(ctx, "shopping list created",
		"list_id", list.ID,
		"customer_id", list.CustomerID,
		"employee_id", list.AssignedEmployeeID,
		"items", len(list.Items),
	)
	return list, nil
}

// SetItemStatus marks one item collected or unavailable. The list moves to
// in_progress with the first adjudication. Re-applying an item's current
// status succeeds without writing anything.
func (e *Engine) SetItemStatus(ctx context.Context, listID, itemID, status string) (*models.ShoppingList, error) {
	const op = "SetItemStatus"
	attrs := []any{"list_id", listID, "item_id", itemID}

	st, err := models.ParseItemStatus(status)
	if err != nil {
		return nil, e.fail(ctx, op, err, attrs...)
	}
	if strings.TrimSpace(listID) == "" || strings.TrimSpace(itemID) == "" {
		return nil, e.fail(ctx, op, fmt.Errorf("%w: list id and item id are required", domain.ErrInvalidInput), attrs...)
	}

	var change domainsvcs.ItemChange
	list, err := e.lists.Update(ctx, listID, func(l *models.ShoppingList) ([]events.Envelope, error) {
		c, err := domainsvcs.SetItemStatus(l, itemID, st, e.now())
		if err != nil {
			return nil, err
		}
		change = c
		if !c.Changed {
			return nil, nil
		}
		return []events.Envelope{events.ItemAdjudicated(l, l.Item(itemID))}, nil
	})
	if err != nil {
		return nil, e.fail(ctx, op, err, attrs...)
	}

	if change.Changed {
		e.metrics.itemAdjudicated(ctx, st.String())
		e.log.InfoContext(ctx, "item adjudicated",
			append(attrs, "status", st, "list_status", list.Status, "list_advanced", change.ListAdvanced)...)
	}
	return list, nil
}

// CompleteList moves a list to completed once no item is pending. The
// completion event is the hand-off to the external payment step.
func (e *Engine) CompleteList(ctx context.Context, listID string) (*models.ShoppingList, error) {
	const op = "CompleteList"

	if strings.TrimSpace(listID) == "" {
		return nil, e.fail(ctx, op, fmt.Errorf("%w: list id is required", domain.ErrInvalidInput))
	}

	list, err := e.lists.Update(ctx, listID, func(l *models.ShoppingList) ([]events.Envelope, error) {
		now := e.now()
		if err := domainsvcs.CompleteList(l, now); err != nil {
			return nil, err
		}
		return []events.Envelope{events.ListCompleted(l, now)}, nil
	})
	if err != nil {
		return nil, e.fail(ctx, op, err, "list_id", listID)
	}

	e.metrics.listsCompleted.Add(ctx, 1)
	e.log.InfoContext(ctx, "shopping list completed",
		"list_id", list.ID,
		"customer_id", list.CustomerID,
		"estimated_total", list.Summary().EstimatedTotal.StringFixed(2),
	)
	return list, nil
}

// OverrideStatus is the administrative status action. The only accepted
// target is completed, which runs the full CompleteList checks; list status
// is otherwise derived and cannot be set directly.
func (e *Engine) OverrideStatus(ctx context.Context, listID, status, actor string) (*models.ShoppingList, error) {
	const op = "OverrideStatus"

	e.log.InfoContext(ctx, "administrative status change requested",
		"audit", true, "op", op, "list_id", listID, "status", status, "actor", actor)

	st, err := models.ParseListStatus(status)
	if err != nil {
		return nil, e.fail(ctx, op, err, "list_id", listID)
	}
	if st != models.ListCompleted {
		err := fmt.Errorf("%w: list status %s is derived from its items and cannot be set", domain.ErrInvalidInput, st)
		return nil, e.fail(ctx, op, err, "list_id", listID)
	}
	return e.CompleteList(ctx, listID)
}

// GetList returns one list.
func (e *Engine) GetList(ctx context.Context, listID string) (*models.ShoppingList, error) {
	list, err := e.lists.Get(ctx, listID)
	if err != nil {
		return nil, e.fail(ctx, "GetList", err, "list_id", listID)
	}
	return list, nil
}

// ListsForCustomer returns the lists of a customer, most recent first.
// activeOnly drops completed lists.
func (e *Engine) ListsForCustomer(ctx context.Context, customerID string, activeOnly bool) ([]*models.ShoppingList, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, e.fail(ctx, "ListsForCustomer", fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput))
	}
	return e.find(ctx, "ListsForCustomer", repositories.ListFilter{CustomerID: customerID, ActiveOnly: activeOnly})
}

// ListsForEmployee returns the lists assigned to an employee. activeOnly
// drops completed lists, giving the employee's work queue.
func (e *Engine) ListsForEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]*models.ShoppingList, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, e.fail(ctx, "ListsForEmployee", fmt.Errorf("%w: employee id is required", domain.ErrInvalidInput))
	}
	return e.find(ctx, "ListsForEmployee", repositories.ListFilter{EmployeeID: employeeID, ActiveOnly: activeOnly})
}

// AllLists returns every list, most recent first.
func (e *Engine) AllLists(ctx context.Context, activeOnly bool) ([]*models.ShoppingList, error) {
	return e.find(ctx, "AllLists", repositories.ListFilter{ActiveOnly: activeOnly})
}

func (e *Engine) find(ctx context.Context, op string, f repositories.ListFilter) ([]*models.ShoppingList, error) {
	lists, err := e.lists.Find(ctx, f)
	if err != nil {
		return nil, e.fail(ctx, op, err, "customer_id", f.CustomerID, "employee_id", f.EmployeeID)
	}
	return lists, nil
}

func (e *Engine) userWithRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: %s id is required", domain.ErrInvalidInput, role)
	}
	u, err := e.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, fmt.Errorf("%w: user %s is not a %s", domain.ErrInvalidInput, id, role)
	}
	return u, nil
}

// assignee resolves the employee for a new list. An empty request picks the
// least loaded employee; no employees at all leaves the list unassigned.
func (e *Engine) assignee(ctx context.Context, requested string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		u, err := e.userWithRole(ctx, requested, models.RoleEmployee)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}

	u, err := e.users.LeastLoadedEmployee(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return u.ID, nil
}

// fail logs err with the operation and entity ids and returns it unchanged.
// Caller mistakes log at warn, everything else at error.
func (e *Engine) fail(ctx context.Context, op string, err error, attrs ...any) error {
	e.metrics.reject(ctx, err)

	args := append([]any{"op", op, "error", err}, attrs...)
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrPreconditionFailed),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict):
		e.log.WarnContext(ctx, "shopping operation rejected", args...)
	default:
		e.log.ErrorContext(ctx, "shopping operation failed", args...)
	}
	return err
}
