package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/spf13/cobra"
)

func newCartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			m, err := loadCart(cmd.Context(), a)
			if err != nil {
				return err
			}
			printCart(a.out, m.Cart())
			return nil
		},
	}

	cmd.AddCommand(
		newCartLineCmd(opts, "inc", "Add one to a line", func(ctx context.Context, m *cart.Model, line domain.CartLine, _ []string) error {
			return m.ChangeQuantity(ctx, line, 1)
		}),
		newCartLineCmd(opts, "dec", "Take one from a line", func(ctx context.Context, m *cart.Model, line domain.CartLine, _ []string) error {
			return m.ChangeQuantity(ctx, line, -1)
		}),
		newCartLineCmd(opts, "remove", "Remove a line", func(ctx context.Context, m *cart.Model, line domain.CartLine, _ []string) error {
			return m.RemoveLine(ctx, line)
		}),
		newCartSetCmd(opts),
		newCartCheckoutCmd(opts),
	)
	return cmd
}

func loadCart(ctx context.Context, a *app) (*cart.Model, error) {
	if err := a.requireView(route.PathCart); err != nil {
		return nil, err
	}
	m := cart.NewModel(a.client, a.state, a.log)
	if err := m.Open(ctx); err != nil {
		return nil, userError(m.Err(), err)
	}
	return m, nil
}

type lineAction func(ctx context.Context, m *cart.Model, line domain.CartLine, args []string) error

func newCartLineCmd(opts *rootOptions, use, short string, action lineAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <productId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineAction(cmd.Context(), opts.app, args, action)
		},
	}
}

func newCartSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <productId> <quantity>",
		Short: "Set a line to an exact quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineAction(cmd.Context(), opts.app, args, func(ctx context.Context, m *cart.Model, line domain.CartLine, args []string) error {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				return m.SetQuantityExact(ctx, line, n)
			})
		},
	}
}

func runLineAction(ctx context.Context, a *app, args []string, action lineAction) error {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	m, err := loadCart(ctx, a)
	if err != nil {
		return err
	}
	line, ok := m.Cart().Line(productID)
	if !ok {
		return fmt.Errorf("product %d is not in the cart", productID)
	}

	if err := action(ctx, m, line, args); err != nil {
		return userError(m.Err(), err)
	}
	printCart(a.out, m.Cart())
	return nil
}

func newCartCheckoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [cartItemId...]",
		Short: "Choose cart items to check out (all by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			ctx := cmd.Context()
			m, err := loadCart(ctx, a)
			if err != nil {
				return err
			}

			var nav *route.Navigation
			if len(args) == 0 {
				nav, err = m.BeginCheckout(ctx)
			} else {
				ids := make([]domain.ID, len(args))
				for i, arg := range args {
					ids[i] = domain.ID(arg)
				}
				nav, err = m.BeginCheckoutWith(ctx, ids)
			}
			if err != nil {
				return err
			}
			if nav == nil {
				fmt.Fprintln(a.out, "Your cart is empty")
				return nil
			}
			fmt.Fprintf(a.out, "Selected %d item(s) for checkout\n", len(nav.State.CartItemIDs))
			a.follow(nav)
			return nil
		},
	}
}
