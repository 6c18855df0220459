// internal/infrastructure/database/postgres/cart_repository.go
package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/your-org/storefront/internal/domain/cart"
	"gorm.io/gorm"
)

// CartRepository stores signed-in customers' carts as cart_items rows.
// Keys are customer ids in decimal.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a customer cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func parseCustomerKey(key string) (uint, error) {
	id, err := strconv.ParseUint(key, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid customer cart key %q", key)
	}
	return uint(id), nil
}

// Load reads the customer's cart lines in the order they were added
func (r *CartRepository) Load(ctx context.Context, key string) (cart.Snapshot, error) {
	customerID, err := parseCustomerKey(key)
	if err != nil {
		return cart.Snapshot{}, err
	}

	var rows []cart.CartItem
	err = r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("failed to retrieve customer cart: %w", err)
	}

	var snapshot cart.Snapshot
	for _, row := range rows {
		line := row.ToLineItem()
		if line.Kind == cart.KindPackage {
			snapshot.Packages = append(snapshot.Packages, line)
		} else {
			snapshot.Products = append(snapshot.Products, line)
		}
		if row.UpdatedAt.After(snapshot.UpdatedAt) {
			snapshot.UpdatedAt = row.UpdatedAt
		}
	}
	return snapshot, nil
}

// Save replaces the customer's cart lines with the snapshot
func (r *CartRepository) Save(ctx context.Context, key string, snapshot cart.Snapshot) error {
	customerID, err := parseCustomerKey(key)
	if err != nil {
		return err
	}

	rows := make([]cart.CartItem, 0, len(snapshot.Products)+len(snapshot.Packages))
	for _, lines := range [][]cart.LineItem{snapshot.Products, snapshot.Packages} {
		for i, line := range lines {
			rows = append(rows, cart.CartItem{
				CustomerID:  customerID,
				Kind:        string(line.Kind),
				ItemID:      line.ID,
				Position:    i,
				Name:        line.Name,
				NameAr:      line.NameAr,
				Image:       line.Image,
				Price:       line.Price,
				Quantity:    line.Quantity,
				LeftInStock: line.LeftInStock,
			})
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("customer_id = ?", customerID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear customer cart: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save customer cart: %w", err)
		}
		return nil
	})
}

// Delete removes every line of the customer's cart
func (r *CartRepository) Delete(ctx context.Context, key string) error {
	customerID, err := parseCustomerKey(key)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Unscoped().Where("customer_id = ?", customerID).Delete(&cart.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete customer cart: %w", err)
	}
	return nil
}
