package persistence

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"orders/internal/adapters/out/persistence/orderrepo"
	"orders/internal/adapters/out/persistence/paymentrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReadModel answers the read-side views with plain SQL. The statements are
// written in the subset shared by PostgreSQL and MySQL.
type GormReadModel struct {
	db *gorm.DB
}

func NewGormReadModel(db *gorm.DB) *GormReadModel {
	return &GormReadModel{db: db}
}

func (r *GormReadModel) OrderDetails(ctx context.Context, orderID int64) (ports.OrderView, error) {
	var dto orderrepo.OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OrderView{}, errs.NewObjectNotFoundError("order", orderID)
		}
		return ports.OrderView{}, errs.NewUnavailableErrorWithCause("get order details", err)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return ports.OrderView{}, err
	}

	view := ports.OrderView{
		ID:         dto.ID,
		UserID:     dto.UserID,
		Status:     status,
		TotalCents: kernel.Cents(dto.TotalCents),
		Items:      make([]ports.OrderItemView, 0, len(dto.Items)),
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
	}
	for _, item := range dto.Items {
		view.Items = append(view.Items, ports.OrderItemView{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: kernel.Cents(item.PriceCents),
		})
	}

	var payments []paymentrepo.PaymentDTO
	if err = r.db.WithContext(ctx).Where("order_id = ?", orderID).Limit(1).Find(&payments).Error; err != nil {
		return ports.OrderView{}, errs.NewUnavailableErrorWithCause("get order payment", err)
	}
	if len(payments) == 1 {
		ref, refErr := kernel.UUIDFromString(payments[0].Reference.String())
		if refErr != nil {
			return ports.OrderView{}, refErr
		}
		view.Payment = &ports.PaymentView{
			Reference:   ref,
			AmountCents: kernel.Cents(payments[0].AmountCents),
			PaidAt:      payments[0].CreatedAt,
		}
	}

	return view, nil
}

func (r *GormReadModel) Revenue(ctx context.Context) (ports.RevenueView, error) {
	var row struct {
		Total    int64
		Payments int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount_cents), 0) AS total,
			COUNT(*) AS payments
		FROM payments
	`).Scan(&row).Error
	if err != nil {
		return ports.RevenueView{}, errs.NewUnavailableErrorWithCause("query revenue", err)
	}

	return ports.RevenueView{TotalCents: kernel.Cents(row.Total), Payments: row.Payments}, nil
}

func (r *GormReadModel) RevenueByUser(ctx context.Context, limit int) ([]ports.UserRevenueView, error) {
	var rows []struct {
		UserID int64
		Email  string
		Total  int64
		Orders int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id AS user_id,
			u.email,
			SUM(p.amount_cents) AS total,
			COUNT(p.id) AS orders
		FROM users u
		JOIN orders o ON u.id = o.user_id
		JOIN payments p ON o.id = p.order_id
		GROUP BY u.id, u.email
		ORDER BY total DESC, u.id
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, errs.NewUnavailableErrorWithCause("query revenue by user", err)
	}

	views := make([]ports.UserRevenueView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ports.UserRevenueView{
			UserID:     row.UserID,
			Email:      row.Email,
			TotalCents: kernel.Cents(row.Total),
			Orders:     row.Orders,
		})
	}
	return views, nil
}

func (r *GormReadModel) OrdersByStatus(ctx context.Context) ([]ports.StatusCountView, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
	`).Scan(&rows).Error
	if err != nil {
		return nil, errs.NewUnavailableErrorWithCause("query orders by status", err)
	}

	views := make([]ports.StatusCountView, 0, len(rows))
	for _, row := range rows {
		status, parseErr := order.ParseStatus(row.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		views = append(views, ports.StatusCountView{Status: status, Count: row.Count})
	}
	// status is stored by name; lifecycle order comes from the enum.
	slices.SortFunc(views, func(a, b ports.StatusCountView) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return views, nil
}

func (r *GormReadModel) TopProducts(ctx context.Context, limit int) ([]ports.ProductSalesView, error) {
	var rows []struct {
		ProductID int64
		Name      string
		Sold      int64
		Revenue   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id AS product_id,
			p.name,
			SUM(oi.quantity) AS sold,
			SUM(oi.quantity * oi.price_cents) AS revenue
		FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		GROUP BY p.id, p.name
		ORDER BY sold DESC, p.id
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, errs.NewUnavailableErrorWithCause("query top products", err)
	}

	views := make([]ports.ProductSalesView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ports.ProductSalesView{
			ProductID:    row.ProductID,
			Name:         row.Name,
			QuantitySold: row.Sold,
			RevenueCents: kernel.Cents(row.Revenue),
		})
	}
	return views, nil
}

// Ping reports whether the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
