package service

import (
	"context"
	"fmt"

	"laundryops/internal/model"
	"laundryops/internal/repository"
)

type UpdateSettingsRequest struct {
	HighlightOrderRowRed *int     `json:"highlight_order_row_red"`
	RentalEnabled        *bool    `json:"rental_enabled"`
	PriceLists           []string `json:"price_lists"`
}

type SettingsService interface {
	Get(ctx context.Context, storeID string) (*model.StoreSettings, error)
	Update(ctx context.Context, storeID string, req UpdateSettingsRequest) (*model.StoreSettings, error)
	PriceListNames(ctx context.Context, storeID string) ([]string, error)
}

type settingsService struct {
	settings repository.SettingsRepository
}

func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

// Get returns the store's settings, falling back to defaults for a store
// that has never saved any.
func (s *settingsService) Get(ctx context.Context, storeID string) (*model.StoreSettings, error) {
	settings, err := s.settings.Get(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store settings: %w", err)
	}
	if settings == nil {
		settings = &model.StoreSettings{StoreID: storeID}
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, storeID string, req UpdateSettingsRequest) (*model.StoreSettings, error) {
	settings, err := s.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.HighlightOrderRowRed != nil {
		settings.HighlightOrderRowRed = *req.HighlightOrderRowRed
	}
	if req.RentalEnabled != nil {
		settings.RentalEnabled = req.RentalEnabled
	}
	if req.PriceLists != nil {
		lists := make([]model.PriceList, 0, len(req.PriceLists))
		for _, name := range req.PriceLists {
			lists = append(lists, model.PriceList{StoreID: storeID, Name: name})
		}
		settings.PriceLists = lists
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save store settings: %w", err)
	}
	return settings, nil
}

// PriceListNames returns the names the price list filter dropdown offers.
// A store with no configured lists gets the single default list.
func (s *settingsService) PriceListNames(ctx context.Context, storeID string) ([]string, error) {
	settings, err := s.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(settings.PriceLists) == 0 {
		return []string{model.DefaultPriceListName}, nil
	}
	names := make([]string, 0, len(settings.PriceLists))
	for _, pl := range settings.PriceLists {
		names = append(names, pl.Name)
	}
	return names, nil
}
