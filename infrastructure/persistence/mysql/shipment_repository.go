package mysql

import (
	"context"

	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
	"ddd-course/infrastructure/persistence/mysql/po"
	"ddd-course/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// ShipmentRepository GORM implementation of shipment.Repository
type ShipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository Create shipment repository
func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Save writes the shipment and its parcels under the optimistic lock
func (r *ShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	if s.ID().IsZero() {
		return shared.NewNotInitializedError("shipment", "save")
	}
	shipmentPO, parcels := po.FromShipmentDomain(s)

	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := writeRoot(tx, "shipment", s, shipmentPO); err != nil {
			return err
		}
		return replaceChildren(tx, "shipment_id", shipmentPO.ID, parcels)
	})
	if err != nil {
		return err
	}
	s.MarkPersisted()
	return nil
}

// FindByID Find shipment by ID
func (r *ShipmentRepository) FindByID(ctx context.Context, id shared.ID) (*shipment.Shipment, error) {
	db := dbFromContext(ctx, r.db)
	var shipmentPO po.ShipmentPO
	if err := db.First(&shipmentPO, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "shipment", id)
	}
	return r.load(db, &shipmentPO)
}

// FindBySpecification Find shipments satisfying spec
func (r *ShipmentRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*shipment.Shipment]) ([]*shipment.Shipment, error) {
	db := dbFromContext(ctx, r.db)
	var shipmentPOs []po.ShipmentPO
	if err := specification.Shipment(spec).Apply(db.Model(&po.ShipmentPO{})).
		Order("created_at ASC").
		Find(&shipmentPOs).Error; err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(shipmentPOs))
	for i := range shipmentPOs {
		s, err := r.load(db, &shipmentPOs[i])
		if err != nil {
			return nil, err
		}
		if spec == nil || spec.IsSatisfiedBy(ctx, s) {
			shipments = append(shipments, s)
		}
	}
	return shipments, nil
}

func (r *ShipmentRepository) load(db *gorm.DB, shipmentPO *po.ShipmentPO) (*shipment.Shipment, error) {
	// Manually query parcels (no Preload, aggregate boundaries stay explicit)
	var parcels []po.ShipmentParcelPO
	if err := db.Where("shipment_id = ?", shipmentPO.ID).Order("position ASC").Find(&parcels).Error; err != nil {
		return nil, err
	}
	return shipmentPO.ToDomain(parcels)
}

// Compile-time interface implementation check
var _ shipment.Repository = (*ShipmentRepository)(nil)
