package mysql

import (
	"testing"

	"ddd-course/domain/course"
	"ddd-course/domain/order"
	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
	"ddd-course/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB in-memory SQLite with every table migrated
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:", logger.GormConfigFor("silent", 0))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestCourse(t *testing.T, capacity int) *course.Course {
	t.Helper()
	name, err := course.NewName("Event Sourcing 101")
	require.NoError(t, err)
	c, err := course.Create(name, capacity)
	require.NoError(t, err)
	return c
}

func newTestShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	dest, err := shipment.NewAddress("Moscow", "Tverskaya 1", "125009")
	require.NoError(t, err)
	maxWeight, err := shipment.NewWeight(10)
	require.NoError(t, err)
	maxVolume, err := shipment.NewVolume(1)
	require.NoError(t, err)
	s, err := shipment.Create(dest, maxWeight, maxVolume)
	require.NoError(t, err)
	return s
}

func newTestProduct(t *testing.T, name string, price int64) order.Product {
	t.Helper()
	money, err := shared.NewMoney(price, "RUB")
	require.NoError(t, err)
	p, err := order.NewProduct(shared.NewID(), name, money)
	require.NoError(t, err)
	return p
}

func qty(t *testing.T, n int) order.Quantity {
	t.Helper()
	q, err := order.NewQuantity(n)
	require.NoError(t, err)
	return q
}
