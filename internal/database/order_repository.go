package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
	"github.com/lib/pq"
)

// OrderRepository reads order history for the forecasting and recommendation
// engines. All queries are restricted to fulfilled-ish order states
// (processing/shipped/delivered); pending and cancelled orders never count
// toward demand or co-purchase statistics.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func fulfilledStatuses() []string {
	statuses := make([]string, len(models.FulfilledStatuses))
	for i, s := range models.FulfilledStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// DailyDemandSeries returns the product's summed daily quantities over the
// trailing window, one point per calendar day, ordered by date ascending.
func (r *OrderRepository) DailyDemandSeries(ctx context.Context, productID string, days int) ([]models.SeriesPoint, error) {
	query := `
		SELECT DATE(o.created_at) AS day, SUM(oi.quantity) AS quantity
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.product_id = $1
		  AND o.status = ANY($2)
		  AND o.created_at >= NOW() - make_interval(days => $3)
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, productID, pq.Array(fulfilledStatuses()), days)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand series: %w", err)
	}
	defer rows.Close()

	var series []models.SeriesPoint
	for rows.Next() {
		var point models.SeriesPoint
		if err := rows.Scan(&point.Date, &point.Value); err != nil {
			return nil, fmt.Errorf("failed to scan demand point: %w", err)
		}
		series = append(series, point)
	}

	return series, rows.Err()
}

// FulfilledOrders returns every fulfilled-ish order with its line items, for
// co-purchase matrix construction.
func (r *OrderRepository) FulfilledOrders(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.status, o.total, o.created_at,
		       oi.product_id, oi.quantity, oi.unit_price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.status = ANY($1)
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(fulfilledStatuses()))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrdersWithItems(rows)
}

// ProductActivitySince returns per-product distinct order counts and summed
// quantities for fulfilled-ish orders created at or after since.
func (r *OrderRepository) ProductActivitySince(ctx context.Context, since time.Time) ([]models.ProductActivity, error) {
	query := `
		SELECT oi.product_id, COUNT(DISTINCT o.id) AS order_count, SUM(oi.quantity) AS total_quantity
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.status = ANY($1)
		  AND o.created_at >= $2
		GROUP BY oi.product_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(fulfilledStatuses()), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query product activity: %w", err)
	}
	defer rows.Close()

	var activity []models.ProductActivity
	for rows.Next() {
		var a models.ProductActivity
		if err := rows.Scan(&a.ProductID, &a.OrderCount, &a.TotalQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan product activity: %w", err)
		}
		activity = append(activity, a)
	}

	return activity, rows.Err()
}

// CustomerRecentOrders returns the customer's most recent fulfilled-ish orders
// with line items, newest first.
func (r *OrderRepository) CustomerRecentOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.status, o.total, o.created_at,
		       oi.product_id, oi.quantity, oi.unit_price
		FROM (
			SELECT id, customer_id, status, total, created_at
			FROM orders
			WHERE customer_id = $1 AND status = ANY($2)
			ORDER BY created_at DESC
			LIMIT $3
		) o
		JOIN order_items oi ON oi.order_id = o.id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, pq.Array(fulfilledStatuses()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}
	defer rows.Close()

	return scanOrdersWithItems(rows)
}

// scanOrdersWithItems folds joined order/item rows into orders with nested
// item slices, preserving row order.
func scanOrdersWithItems(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	index := make(map[string]int)

	for rows.Next() {
		var (
			order models.Order
			item  models.OrderItem
		)
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.Status, &order.Total, &order.CreatedAt,
			&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		i, ok := index[order.ID]
		if !ok {
			i = len(orders)
			index[order.ID] = i
			orders = append(orders, order)
		}
		orders[i].Items = append(orders[i].Items, item)
	}

	return orders, rows.Err()
}
