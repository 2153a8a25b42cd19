/*
Package order Application Layer - Order Business Process Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Parse identifiers and build value objects
3. Call aggregate root methods to execute business operations
4. Use UoW to manage transactions and event collection
5. Return results to caller

Important: Application services do not directly publish events!
- UoW drains events from registered aggregates after the work succeeds
- With the SQL store the events are written to the outbox table in the same transaction
*/
package order

import (
	"context"
	"fmt"

	"ddd-course/domain/order"
	"ddd-course/domain/shared"
)

// ApplicationService Order application service - coordinates order-related business processes
type ApplicationService struct {
	orderRepo  order.Repository
	uowFactory shared.UnitOfWorkFactory
}

// NewApplicationService Create order application service
func NewApplicationService(orderRepo order.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{orderRepo: orderRepo, uowFactory: uowFactory}
}

// CreateOrder Create order, optionally with its first items
// The order and its items are created in one unit of work: either all items fit or nothing is stored
func (s *ApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	customerID, err := shared.ParseID(req.CustomerID)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err = order.Create(customerID, req.Currency)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			product, quantity, err := toProduct(item, req.Currency)
			if err != nil {
				return err
			}
			if err := o.AddItem(product, quantity); err != nil {
				return err
			}
		}

		// Save order (uses transaction from context)
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		// Register aggregate with UoW for event collection
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return toOrderResponse(o)
}

// AddItem Add a product line, merging with an existing line of the same product
func (s *ApplicationService) AddItem(ctx context.Context, orderID string, req OrderItemRequest) (*OrderResponse, error) {
	return s.mutate(ctx, "add item", orderID, func(o *order.Order) error {
		product, quantity, err := toProduct(req, o.Currency())
		if err != nil {
			return err
		}
		return o.AddItem(product, quantity)
	})
}

// RemoveItem Remove a product line
func (s *ApplicationService) RemoveItem(ctx context.Context, orderID, productID string) (*OrderResponse, error) {
	pid, err := shared.ParseID(productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "remove item", orderID, func(o *order.Order) error {
		return o.RemoveItem(pid)
	})
}

// ChangeItemQuantity Replace the quantity of a product line
func (s *ApplicationService) ChangeItemQuantity(ctx context.Context, orderID, productID string, req ChangeQuantityRequest) (*OrderResponse, error) {
	pid, err := shared.ParseID(productID)
	if err != nil {
		return nil, err
	}
	quantity, err := order.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "change item quantity", orderID, func(o *order.Order) error {
		return o.ChangeItemQuantity(pid, quantity)
	})
}

// PayOrder Pay order
func (s *ApplicationService) PayOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "pay order", orderID, func(o *order.Order) error {
		return o.Pay()
	})
}

// ShipOrder Ship order
func (s *ApplicationService) ShipOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "ship order", orderID, func(o *order.Order) error {
		return o.Ship()
	})
}

// CancelOrder Cancel order with a reason
func (s *ApplicationService) CancelOrder(ctx context.Context, orderID string, req CancelOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, "cancel order", orderID, func(o *order.Order) error {
		return o.Cancel(req.Reason)
	})
}

// GetOrder Get order information
func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	id, err := shared.ParseID(orderID)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o)
}

// GetCustomerOrders Get all orders for customer
func (s *ApplicationService) GetCustomerOrders(ctx context.Context, customerID string) ([]*OrderResponse, error) {
	id, err := shared.ParseID(customerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByCustomerID(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		if responses[i], err = toOrderResponse(o); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

// mutate load-mutate-save of one order inside a unit of work
func (s *ApplicationService) mutate(ctx context.Context, op, orderID string, fn func(*order.Order) error) (*OrderResponse, error) {
	id, err := shared.ParseID(orderID)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err = s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toOrderResponse(o)
}
