package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/storefront/internal/api"
	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
)

// OrdersCmd shows the signed-in user's orders.
type OrdersCmd struct {
	List   OrdersListCmd   `cmd:"" default:"1" help:"List my orders"`
	Show   OrdersShowCmd   `cmd:"" help:"Show an order"`
	Cancel OrdersCancelCmd `cmd:"" help:"Cancel an order"`
	Watch  OrdersWatchCmd  `cmd:"" help:"Wait for an order to reach a status"`
}

type OrdersListCmd struct{}

func (c *OrdersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/orders")
	if err != nil {
		return err
	}

	orders, err := app.API.Orders.Mine(ctx)
	if err != nil {
		return err
	}

	return printOrders(globals, orders)
}

func printOrders(globals *Globals, orders []models.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(globals.out(), "No orders found.")
		return nil
	}

	w := newTable(globals.out(), "ID", "NUMBER", "STATUS", "TOTAL", "DATE")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.OrderID, o.OrderNumber, o.OrderStatus, money(o.TotalAmount), o.OrderDate)
	}
	return w.Flush()
}

type OrdersShowCmd struct {
	ID int `arg:"" help:"Order id"`
}

func (c *OrdersShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, fmt.Sprintf("/orders/%d", c.ID))
	if err != nil {
		return err
	}

	o, err := app.API.Orders.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	printOrder(globals, o)

	return nil
}

func printOrder(globals *Globals, o *models.Order) {
	out := globals.out()
	fmt.Fprintf(out, "Order:     %s (#%d)\n", o.OrderNumber, o.OrderID)
	fmt.Fprintf(out, "Status:    %s\n", o.OrderStatus)
	if o.PaymentStatus != "" {
		fmt.Fprintf(out, "Payment:   %s\n", o.PaymentStatus)
	}
	fmt.Fprintf(out, "Date:      %s\n", o.OrderDate)
	fmt.Fprintf(out, "Subtotal:  %s\n", money(o.SubTotal))
	if o.DiscountAmount > 0 {
		fmt.Fprintf(out, "Discount: -%s\n", money(o.DiscountAmount))
	}
	fmt.Fprintf(out, "Shipping:  %s\n", money(o.ShippingCost))
	fmt.Fprintf(out, "Tax:       %s\n", money(o.Tax))
	fmt.Fprintf(out, "Total:     %s\n", money(o.TotalAmount))

	if len(o.OrderItems) > 0 {
		fmt.Fprintln(out)
		w := newTable(out, "PRODUCT", "QTY", "PRICE", "TOTAL")
		for _, item := range o.OrderItems {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.ProductName, item.Quantity, money(item.UnitPrice), money(item.TotalPrice))
		}
		w.Flush()
	}
}

type OrdersCancelCmd struct {
	ID int `arg:"" help:"Order id"`
}

func (c *OrdersCancelCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, "/orders")
	if err != nil {
		return err
	}

	if err := app.API.Orders.Cancel(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Order %d cancelled\n", c.ID)

	return nil
}

type OrdersWatchCmd struct {
	ID       int           `arg:"" help:"Order id"`
	Status   string        `help:"Status to wait for" default:"Delivered"`
	Interval time.Duration `help:"Initial polling interval" default:"5s"`
	Timeout  time.Duration `help:"Give up after this long" default:"30m"`
}

func (c *OrdersWatchCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.open(ctx, guard.RequireAuthenticated, fmt.Sprintf("/orders/%d", c.ID))
	if err != nil {
		return err
	}

	out := globals.out()
	last := ""

	order, err := app.API.Orders.WaitForStatus(ctx, c.ID, c.Status, api.WaitOptions{
		InitialInterval: c.Interval,
		MaxWait:         c.Timeout,
		OnPoll: func(o *models.Order) {
			if o.OrderStatus != last {
				fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), o.OrderStatus)
				last = o.OrderStatus
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Order %s is %s\n", order.OrderNumber, order.OrderStatus)

	return nil
}
