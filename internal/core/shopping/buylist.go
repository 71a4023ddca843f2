package shopping

import (
	"context"
	"errors"
	"sort"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// BuyLists returns all saved lists, newest first.
func (s *Service) BuyLists(ctx context.Context) ([]*model.BuyList, error) {
	lists, err := s.store.BuyLists(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].SavedAt > lists[j].SavedAt
	})
	return lists, nil
}

// BuyList returns one saved list by id.
func (s *Service) BuyList(ctx context.Context, id string) (*model.BuyList, error) {
	list, err := s.store.BuyList(ctx, id)
	if errors.Is(err, store.ErrNotExist) {
		return nil, common.NewNotFound("Not found.")
	}
	return list, err
}

// SaveBuyList validates and persists a list. The id, week_start and
// week_end fields are required.
func (s *Service) SaveBuyList(ctx context.Context, list *model.BuyList) error {
	if list.ID == "" || list.WeekStart == "" || list.WeekEnd == "" {
		return common.NewValidationError("Missing required fields.")
	}
	return s.store.SaveBuyList(ctx, list)
}

// UpdateBuyList replaces the list stored under id with the given payload.
func (s *Service) UpdateBuyList(ctx context.Context, id string, list *model.BuyList) error {
	list.ID = id
	return s.store.SaveBuyList(ctx, list)
}

// DeleteBuyList removes a saved list.
func (s *Service) DeleteBuyList(ctx context.Context, id string) error {
	err := s.store.DeleteBuyList(ctx, id)
	if errors.Is(err, store.ErrNotExist) {
		return common.NewNotFound("Not found.")
	}
	return err
}

// SyncBuyList rebuilds an unlocked list's items from its week's current
// aggregate merged with the saved state, stamping a fresh saved_at.
func (s *Service) SyncBuyList(ctx context.Context, id string) (*model.BuyList, error) {
	list, err := s.BuyList(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.Status == model.BuyListLocked {
		return nil, common.NewValidationError("List is locked.")
	}

	weeklyItems, err := s.WeeklyItems(ctx, list.WeekStart, list.Lang)
	if err != nil {
		return nil, err
	}
	state, err := s.store.ShoppingState(ctx)
	if err != nil {
		return nil, err
	}

	overview := BuildOverview(weeklyItems, state, list.Lang)
	items := make([]model.BuyListItem, 0, len(overview.ShoppingItems))
	for _, item := range overview.ShoppingItems {
		items = append(items, model.BuyListItem{
			Name:     item.Name,
			Unit:     item.Unit,
			Quantity: item.Quantity,
			Key:      item.Key,
		})
	}

	list.Items = items
	list.SavedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.store.SaveBuyList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
