// Package featured maintains the admin curated featured lists: ordered,
// size-capped subsets of catalog entities persisted independently of the
// primary collections. Entry identity is positional, ids and order values
// are reassigned as a dense 1..N sequence on every mutation.
package featured

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

var (
	ErrLimitExceeded = errors.New("featured list limit exceeded")
	ErrNotFound      = store.ErrNotFound
	ErrUnknownList   = errors.New("unknown featured list type")
)

// fallback sort key for a target whose entry cannot be found, sorts last
const orderSentinel = 999

// Target is the joined view of a featured entry's catalog entity
type Target struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price,omitempty"`
	Website     string   `json:"website,omitempty"`
}

// Detail is a featured entry enriched with its target entity
type Detail struct {
	domain.FeaturedEntry
	Target Target `json:"target"`
}

// PublicItem is the reduced projection served on the public site
type PublicItem struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Price   *float64 `json:"price,omitempty"`
	Website string   `json:"website,omitempty"`
	Order   int      `json:"order"`
}

// Curator manages one featured list type over the store facade
type Curator struct {
	store    store.Store
	listType string
	max      int
}

func NewCurator(s store.Store, listType string, max int) *Curator {
	return &Curator{store: s, listType: listType, max: max}
}

// Max returns the list size cap
func (c *Curator) Max() int {
	return c.max
}

// Replace rebuilds the whole list from the given target ids in order. Entry
// i receives id i+1 and order i+1, so previously issued entry ids become
// invalid. A list longer than the cap is rejected and the stored list is
// left untouched.
func (c *Curator) Replace(ctx context.Context, targetIDs []int64) ([]domain.FeaturedEntry, error) {
	if len(targetIDs) > c.max {
		return nil, errors.Wrapf(ErrLimitExceeded, "at most %d entries allowed", c.max)
	}
	now := time.Now()
	entries := make([]domain.FeaturedEntry, 0, len(targetIDs))
	for i, targetID := range targetIDs {
		entries = append(entries, domain.FeaturedEntry{
			ID:        int64(i + 1),
			ListType:  c.listType,
			TargetID:  targetID,
			Order:     i + 1,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := c.store.SaveFeaturedEntries(ctx, c.listType, entries); err != nil {
		return nil, errors.Wrap(err, "save featured list")
	}
	return entries, nil
}

// Remove drops the entry with the given id and renumbers the survivors so
// ids and order values are dense from 1 again, preserving relative order.
func (c *Curator) Remove(ctx context.Context, entryID int64) error {
	entries, err := c.store.FeaturedEntries(ctx, c.listType)
	if err != nil {
		return err
	}
	kept := entries[:0:0]
	found := false
	for i := range entries {
		if entries[i].ID == entryID {
			found = true
			continue
		}
		kept = append(kept, entries[i])
	}
	if !found {
		return ErrNotFound
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Order < kept[j].Order })
	now := time.Now()
	for i := range kept {
		kept[i].ID = int64(i + 1)
		kept[i].Order = i + 1
		kept[i].UpdatedAt = now
	}
	return c.store.SaveFeaturedEntries(ctx, c.listType, kept)
}

// ListWithDetails joins each entry to its target entity, drops entries whose
// target no longer exists and sorts by order ascending.
func (c *Curator) ListWithDetails(ctx context.Context) ([]Detail, error) {
	entries, err := c.store.FeaturedEntries(ctx, c.listType)
	if err != nil {
		return nil, err
	}
	targets, err := c.targets(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]Detail, 0, len(entries))
	for i := range entries {
		target, ok := targets[entries[i].TargetID]
		if !ok {
			// dangling reference, silently dropped from enriched output
			continue
		}
		details = append(details, Detail{FeaturedEntry: entries[i], Target: target})
	}
	sort.SliceStable(details, func(i, j int) bool { return details[i].Order < details[j].Order })
	return details, nil
}

// ListPublic is ListWithDetails narrowed to active targets and projected to
// the public field subset.
func (c *Curator) ListPublic(ctx context.Context) ([]PublicItem, error) {
	entries, err := c.store.FeaturedEntries(ctx, c.listType)
	if err != nil {
		return nil, err
	}
	targets, err := c.targets(ctx)
	if err != nil {
		return nil, err
	}

	orderOf := func(targetID int64) int {
		for i := range entries {
			if entries[i].TargetID == targetID {
				return entries[i].Order
			}
		}
		return orderSentinel
	}

	items := make([]PublicItem, 0, len(entries))
	seen := make(map[int64]bool, len(entries))
	for i := range entries {
		if seen[entries[i].TargetID] {
			continue
		}
		seen[entries[i].TargetID] = true
		target, ok := targets[entries[i].TargetID]
		if !ok || target.Status != common.StatusActive {
			continue
		}
		items = append(items, PublicItem{
			ID:      target.ID,
			Name:    target.Name,
			Image:   target.Image,
			Price:   target.Price,
			Website: target.Website,
			Order:   orderOf(target.ID),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

// Sweep drops entries whose target entity was deleted and renumbers the
// remainder. Run periodically; the read path tolerates stragglers anyway.
func (c *Curator) Sweep(ctx context.Context) error {
	entries, err := c.store.FeaturedEntries(ctx, c.listType)
	if err != nil {
		return err
	}
	targets, err := c.targets(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0:0]
	for i := range entries {
		if _, ok := targets[entries[i].TargetID]; ok {
			kept = append(kept, entries[i])
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Order < kept[j].Order })
	now := time.Now()
	for i := range kept {
		kept[i].ID = int64(i + 1)
		kept[i].Order = i + 1
		kept[i].UpdatedAt = now
	}
	return c.store.SaveFeaturedEntries(ctx, c.listType, kept)
}

func (c *Curator) targets(ctx context.Context) (map[int64]Target, error) {
	targets := make(map[int64]Target)
	switch c.listType {
	case domain.FeaturedProducts:
		products, err := c.store.Products(ctx, store.ProductFilter{})
		if err != nil {
			return nil, err
		}
		for i := range products {
			p := products[i]
			price := p.Price
			targets[p.ID] = Target{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Image:       p.Image,
				Status:      p.Status,
				Price:       &price,
			}
		}
	case domain.FeaturedCategories:
		categories, err := c.store.Categories(ctx)
		if err != nil {
			return nil, err
		}
		for i := range categories {
			cat := categories[i]
			targets[cat.ID] = Target{
				ID:          cat.ID,
				Name:        cat.Name,
				Description: cat.Description,
				Image:       cat.Image,
				Status:      cat.Status,
			}
		}
	case domain.FeaturedMarkas:
		markas, err := c.store.Markas(ctx)
		if err != nil {
			return nil, err
		}
		for i := range markas {
			m := markas[i]
			targets[m.ID] = Target{
				ID:          m.ID,
				Name:        m.Name,
				Description: m.Description,
				Image:       m.Logo,
				Status:      m.Status,
				Website:     m.Website,
			}
		}
	default:
		return nil, errors.Wrapf(ErrUnknownList, "list type %q", c.listType)
	}
	return targets, nil
}
