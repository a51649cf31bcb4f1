package main

import (
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/spf13/cobra"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			if err := a.requireView(route.PathOrders); err != nil {
				return err
			}
			l := orders.NewList(a.client, a.log)
			if err := l.Load(cmd.Context()); err != nil {
				return userError(l.Err(), err)
			}
			list := l.Orders()
			printOrders(a.out, list)
			for _, o := range list {
				if nav, ok := l.PayRoute(o); ok {
					fmt.Fprintf(a.out, "Pay Now: %s\n", nav.Path)
				}
			}
			return nil
		},
	}
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <orderId>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			id := domain.ID(args[0])
			if err := a.requireView(route.OrderDetailPath(id)); err != nil {
				return err
			}
			d := orders.NewDetail(a.client, a.log)
			defer d.Dismiss()
			if err := d.Load(cmd.Context(), id); err != nil {
				return userError(d.Err(), err)
			}
			printOrder(a.out, d.Order())
			if d.IsPending() {
				fmt.Fprintf(a.out, "Pay Now: %s\n", route.PaymentPath(id))
			}
			return nil
		},
	}
}

func newPayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <orderId>",
		Short: "Pay a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			id := domain.ID(args[0])
			if err := a.requireView(route.PaymentPath(id)); err != nil {
				return err
			}
			ctx := cmd.Context()

			m := payment.NewModel(a.client, a.log)
			defer m.Dismiss()
			if err := m.Load(ctx, id); err != nil {
				return userError(m.Err(), err)
			}
			o := m.Order()
			fmt.Fprintf(a.out, "Order %s  %s  $%s\n", o.OrderNumber, statusLabel(o.Status), o.TotalPrice)
			if !m.CanPay() {
				return fmt.Errorf("order %s cannot be paid (status %s)", id, o.Status)
			}

			nav, err := m.Pay(ctx)
			if err != nil {
				return userError(m.Err(), err)
			}
			if nav == nil {
				return userError(m.Err(), nil)
			}
			fmt.Fprintln(a.out, "Payment successful")
			a.follow(nav)
			return nil
		},
	}
}
