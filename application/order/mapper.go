package order

import (
	"ddd-course/domain/order"
	"ddd-course/domain/shared"
)

func toProduct(item OrderItemRequest, currency string) (order.Product, order.Quantity, error) {
	productID, err := shared.ParseID(item.ProductID)
	if err != nil {
		return order.Product{}, order.Quantity{}, err
	}
	price, err := shared.NewMoney(item.UnitPrice, currency)
	if err != nil {
		return order.Product{}, order.Quantity{}, err
	}
	product, err := order.NewProduct(productID, item.ProductName, price)
	if err != nil {
		return order.Product{}, order.Quantity{}, err
	}
	quantity, err := order.NewQuantity(item.Quantity)
	if err != nil {
		return order.Product{}, order.Quantity{}, err
	}
	return product, quantity, nil
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: m.Currency()}
}

func toOrderResponse(o *order.Order) (*OrderResponse, error) {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		subtotal, err := item.Subtotal()
		if err != nil {
			return nil, err
		}
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity().Int(),
			UnitPrice:   toMoneyResponse(item.UnitPrice()),
			Subtotal:    toMoneyResponse(subtotal),
		}
	}

	total, err := o.Total()
	if err != nil {
		return nil, err
	}
	return &OrderResponse{
		ID:           o.ID().String(),
		CustomerID:   o.CustomerID().String(),
		Items:        items,
		Total:        toMoneyResponse(total),
		Status:       string(o.Status()),
		CancelReason: o.CancelReason(),
		CreatedAt:    o.CreatedAt(),
		Version:      o.Version(),
	}, nil
}
