package main

import (
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/spf13/cobra"
)

type checkoutFlags struct {
	items  []string
	name   string
	phone  string
	addr   string
	method string
	notes  string
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	var f checkoutFlags
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the selected cart items",
		Long: "Place an order. Items come from --items, else from the last " +
			"'cart checkout' selection, else the whole cart.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			if err := a.requireView(route.PathCheckout); err != nil {
				return err
			}
			ctx := cmd.Context()

			var state *route.State
			if len(f.items) > 0 {
				state = &route.State{}
				for _, id := range f.items {
					state.CartItemIDs = append(state.CartItemIDs, domain.ID(id))
				}
			}

			m := checkout.NewModel(a.client, a.state, state, a.log)
			if err := m.Load(ctx); err != nil {
				return userError(m.Err(), err)
			}

			lines := m.SelectedLines()
			if len(lines) > 0 {
				c := &domain.Cart{Items: lines}
				c.TotalQuantity, c.TotalPrice = m.SelectedTotal()
				printCart(a.out, c)
			}

			m.SetRecipientName(f.name)
			m.SetRecipientPhone(f.phone)
			m.SetShippingAddr(f.addr)
			m.SetNotes(f.notes)
			if err := m.SetPaymentMethod(domain.PaymentMethod(f.method)); err != nil {
				return fmt.Errorf("%w (choose one of %q)", err, domain.PaymentMethods)
			}

			nav, err := m.Submit(ctx)
			if err != nil {
				msg := m.Err()
				if msg == "" {
					msg = checkout.Message(err)
				}
				return userError(msg, err)
			}
			if nav == nil {
				return userError(m.Err(), nil)
			}
			fmt.Fprintln(a.out, m.Toast())
			a.follow(nav)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.items, "items", nil, "cart item ids to check out")
	fl.StringVar(&f.name, "name", "", "recipient name")
	fl.StringVar(&f.phone, "phone", "", "recipient phone, 11 digits starting with 1")
	fl.StringVar(&f.addr, "addr", "", "shipping address")
	fl.StringVar(&f.method, "method", string(domain.PaymentOnline), "payment method")
	fl.StringVar(&f.notes, "notes", "", "order notes")
	return cmd
}
