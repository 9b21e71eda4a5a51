package db

import "context"

const listProducts = `
SELECT id, name, image, price
FROM products
ORDER BY name, id`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const getProduct = `
SELECT id, name, image, price
FROM products
WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := q.db.QueryRowContext(ctx, getProduct, id).Scan(&p.ID, &p.Name, &p.Image, &p.Price)
	return p, err
}

const getUser = `
SELECT id, name, role
FROM users
WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUser, id).Scan(&u.ID, &u.Name, &u.Role)
	return u, err
}

const listUsersByRole = `
SELECT id, name, role
FROM users
WHERE role = $1
ORDER BY id`

func (q *Queries) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsersByRole, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const leastLoadedEmployee = `
SELECT u.id, u.name, u.role
FROM users u
LEFT JOIN shopping_lists l ON l.assigned_employee_id = u.id AND l.status <> 'completed'
WHERE u.role = 'employee'
GROUP BY u.id, u.name, u.role
ORDER BY COUNT(l.id), u.id
LIMIT 1`

func (q *Queries) LeastLoadedEmployee(ctx context.Context) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, leastLoadedEmployee).Scan(&u.ID, &u.Name, &u.Role)
	return u, err
}
