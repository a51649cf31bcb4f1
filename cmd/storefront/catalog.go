package main

import (
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/route"
	"github.com/spf13/cobra"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var (
		page    int
		keyword string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := opts.app
			if err := a.requireView(route.PathProducts); err != nil {
				return err
			}
			ctx := cmd.Context()

			l := catalog.NewListing(a.client, a.sess, a.log)
			if err := l.Search(ctx, keyword); err != nil {
				return userError(l.Err(), err)
			}
			if page > 0 {
				if err := l.GoToPage(ctx, page); err != nil {
					return err
				}
			}

			if kw := l.Keyword(); kw != "" {
				fmt.Fprintf(a.out, "Search Results: %s\n", kw)
			}
			fmt.Fprintln(a.out, l.Showing())
			printProducts(a.out, l.Products())
			data := l.Data()
			if data.TotalPages > 1 {
				fmt.Fprintf(a.out, "Page %d of %d\n", data.Page+1, data.TotalPages)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "search keyword")
	return cmd
}

func newProductCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <productId>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			d := catalog.NewDetail(a.client, a.sess, a.log)
			if err := d.Load(cmd.Context(), id); err != nil {
				return userError(d.Err(), err)
			}
			printProduct(a.out, d.Product())
			return nil
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <productId> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.app
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
			}

			ctx := cmd.Context()
			if qty == 1 {
				l := catalog.NewListing(a.client, a.sess, a.log)
				err = l.AddToCart(ctx, id, qty)
				fmt.Fprintln(a.out, l.Toast())
				return err
			}

			d := catalog.NewDetail(a.client, a.sess, a.log)
			if err := d.Load(ctx, id); err != nil {
				return userError(d.Err(), err)
			}
			if got := d.SetQuantity(qty); got != qty {
				fmt.Fprintf(a.out, "Quantity adjusted to %d\n", got)
			}
			if err := d.AddToCart(ctx); err != nil {
				if msg := d.Toast() + d.Err(); msg != "" {
					fmt.Fprintln(a.out, msg)
				}
				return err
			}
			fmt.Fprintln(a.out, d.Toast())
			return nil
		},
	}
}
