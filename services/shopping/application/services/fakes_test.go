package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/events"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
)

// memLists is an in-memory ListRepository. Update works on a copy and only
// stores it when fn succeeds, like a rolled-back transaction would.
type memLists struct {
	mu        sync.Mutex
	lists     map[string]*models.ShoppingList
	order     []string
	published []events.Envelope
	createErr error
}

func newMemLists() *memLists {
	return &memLists{lists: make(map[string]*models.ShoppingList)}
}

func cloneList(l *models.ShoppingList) *models.ShoppingList {
	c := *l
	c.Items = append([]models.Item(nil), l.Items...)
	return &c
}

func (m *memLists) Create(_ context.Context, list *models.ShoppingList, evts ...events.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.lists[list.ID] = cloneList(list)
	m.order = append(m.order, list.ID)
	m.published = append(m.published, evts...)
	return nil
}

func (m *memLists) Update(_ context.Context, id string, fn repositories.UpdateFunc) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.lists[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, id)
	}
	work := cloneList(stored)
	evts, err := fn(work)
	if err != nil {
		return nil, err
	}
	m.lists[id] = work
	m.published = append(m.published, evts...)
	return cloneList(work), nil
}

func (m *memLists) Get(_ context.Context, id string) (*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrListNotFound, id)
	}
	return cloneList(l), nil
}

func (m *memLists) Find(_ context.Context, f repositories.ListFilter) ([]*models.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ShoppingList
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.lists[m.order[i]]
		if f.CustomerID != "" && l.CustomerID != f.CustomerID {
			continue
		}
		if f.EmployeeID != "" && l.AssignedEmployeeID != f.EmployeeID {
			continue
		}
		if f.ActiveOnly && l.Status.IsTerminal() {
			continue
		}
		out = append(out, cloneList(l))
	}
	return out, nil
}

func (m *memLists) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lists)
}

func (m *memLists) topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.Topic)
	}
	return out
}

type memUsers struct {
	users map[string]*models.User
}

func seedUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{
		"1": {ID: "1", Name: "John Customer", Role: models.RoleCustomer},
		"2": {ID: "2", Name: "Jane Employee", Role: models.RoleEmployee},
		"3": {ID: "3", Name: "Bob Customer", Role: models.RoleCustomer},
	}}
}

func (m *memUsers) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return u, nil
}

func (m *memUsers) ByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) LeastLoadedEmployee(ctx context.Context) (*models.User, error) {
	emps, _ := m.ByRole(ctx, models.RoleEmployee)
	if len(emps) == 0 {
		return nil, fmt.Errorf("%w: no employees", domain.ErrUserNotFound)
	}
	return emps[0], nil
}

type memProducts struct {
	products []models.Product
	calls    int
}

func seedProducts() *memProducts {
	return &memProducts{products: []models.Product{
		{ID: "3", Name: "Bananas", Image: "/images/bananas.jpg", Price: decimal.RequireFromString("1.20")},
		{ID: "1", Name: "Fresh Milk", Image: "/images/milk.jpg", Price: decimal.RequireFromString("1.50")},
		{ID: "2", Name: "White Bread", Image: "/images/bread.jpg", Price: decimal.RequireFromString("0.90")},
	}}
}

func (m *memProducts) All(_ context.Context) ([]models.Product, error) {
	m.calls++
	return append([]models.Product(nil), m.products...), nil
}

func (m *memProducts) Get(_ context.Context, id string) (*models.Product, error) {
	m.calls++
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}
