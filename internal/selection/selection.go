// Package selection persists the cart item ids captured when checkout starts,
// the fallback used when the checkout view is reached without navigation
// state.
package selection

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/store"
)

const key = "checkout:cartItemIds"

func Save(ctx context.Context, st store.Store, ids []domain.ID) error {
	if st == nil {
		return nil
	}
	return store.SetJSON(ctx, st, key, ids)
}

// Load returns the persisted selection, or nil when there is none.
func Load(ctx context.Context, st store.Store) ([]domain.ID, error) {
	if st == nil {
		return nil, nil
	}
	var ids []domain.ID
	err := store.GetJSON(ctx, st, key, &ids)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func Clear(ctx context.Context, st store.Store) error {
	if st == nil {
		return nil
	}
	return st.Delete(ctx, key)
}

// Normalize drops empty and repeated ids, keeping first-seen order.
func Normalize(ids []domain.ID) []domain.ID {
	out := make([]domain.ID, 0, len(ids))
	seen := make(map[domain.ID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
