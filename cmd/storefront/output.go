package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/orders"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProducts(w io.Writer, products []domain.Product) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	tw.Flush()
}

func printProduct(w io.Writer, p *domain.Product) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "Price: $%s\n", p.Price)
	if p.InStock() {
		fmt.Fprintf(w, "In Stock (%d)\n", p.Stock)
	} else {
		fmt.Fprintln(w, "Out of Stock")
	}
}

func printCart(w io.Writer, c *domain.Cart) {
	if c.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tNAME\tPRICE\tQTY\tSUBTOTAL\t")
	for _, l := range c.Items {
		note := ""
		if l.OverStock() {
			note = fmt.Sprintf("only %d left", l.Stock)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\t%s\n", l.CartItemID, l.ProductID, l.ProductName, l.UnitPrice, l.Quantity, l.Subtotal, note)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %d items, $%s\n", c.TotalQuantity, c.TotalPrice)
}

func printOrders(w io.Writer, list []domain.Order) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNUMBER\tSTATUS\tITEMS\tTOTAL\tCREATED")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", o.OrderID, o.OrderNumber, statusLabel(o.Status), o.TotalQuantity, o.TotalPrice, o.CreatedAt)
	}
	tw.Flush()
}

func printOrder(w io.Writer, o *domain.Order) {
	fmt.Fprintf(w, "Order %s (#%s)  %s\n", o.OrderNumber, o.OrderID, statusLabel(o.Status))
	fmt.Fprintf(w, "Ship to: %s, %s, %s\n", o.RecipientName, o.RecipientPhone, o.ShippingAddr)
	if o.PaymentMethod != "" {
		fmt.Fprintf(w, "Payment: %s\n", o.PaymentMethod)
	}
	if o.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", o.Notes)
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ProductName, l.UnitPrice, l.Quantity, l.Subtotal)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: $%s\n", o.TotalPrice)
}

func statusLabel(s domain.OrderStatus) string {
	return fmt.Sprintf("%s [%s]", s, orders.StatusBadge(s))
}

type viewError struct {
	msg string
	err error
}

func (e *viewError) Error() string { return e.msg }
func (e *viewError) Unwrap() error { return e.err }

// userError reports msg, the text a view would show, while keeping err for
// errors.Is checks.
func userError(msg string, err error) error {
	if msg == "" {
		return err
	}
	return &viewError{msg: msg, err: err}
}
