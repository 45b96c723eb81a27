package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
)

// AlertService keeps the price alert list in local storage under
// models.KeyPriceAlerts.
type AlertService interface {
	// Toggle adds an alert for p, or removes it when one exists. It reports
	// whether the alert is active afterwards.
	Toggle(ctx context.Context, p models.Product) (bool, error)
	Active(ctx context.Context, productID string) (bool, error)
	List(ctx context.Context) ([]models.PriceAlert, error)
}

type alertService struct {
	repo storage.Repository
	now  func() time.Time
}

func NewAlertService(repo storage.Repository) AlertService {
	return &alertService{repo: repo, now: time.Now}
}

func (s *alertService) List(ctx context.Context) ([]models.PriceAlert, error) {
	raw, ok, err := s.repo.Get(ctx, storage.ScopeLocal, models.KeyPriceAlerts)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var alerts []models.PriceAlert
	if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
		// A corrupted list is treated as empty and replaced on the next toggle.
		return nil, nil
	}
	return alerts, nil
}

func (s *alertService) Active(ctx context.Context, productID string) (bool, error) {
	alerts, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range alerts {
		if a.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *alertService) Toggle(ctx context.Context, p models.Product) (bool, error) {
	if p.ID == "" {
		return false, fmt.Errorf("product has no id")
	}

	alerts, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	kept := alerts[:0:0]
	removed := false
	for _, a := range alerts {
		if a.ProductID == p.ID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}

	if !removed {
		kept = append(kept, models.PriceAlert{
			ProductID:    p.ID,
			ProductName:  alertName(p),
			CurrentPrice: p.LowestPrice(),
			DateAdded:    s.now().UTC(),
			Status:       models.AlertStatusActive,
		})
	}

	b, err := json.Marshal(kept)
	if err != nil {
		return false, fmt.Errorf("encode alerts: %w", err)
	}
	if err := s.repo.Set(ctx, storage.ScopeLocal, models.KeyPriceAlerts, string(b)); err != nil {
		return false, err
	}
	return !removed, nil
}

func alertName(p models.Product) string {
	if p.Model != "" {
		return p.Model
	}
	return "Unknown"
}
