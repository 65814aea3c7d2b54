package app

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amanthanvi/assetvault/internal/audit"
	"github.com/amanthanvi/assetvault/internal/session"
	"github.com/amanthanvi/assetvault/internal/storage"
)

// purchaseDatePattern checks shape only. The registry stores the date as
// text and never interprets it as a calendar value.
var purchaseDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AssetService fronts the asset repository with the form validation the
// storage layer deliberately omits. Every operation requires a live session.
type AssetService struct {
	assets   storage.AssetRepository
	sessions *session.Manager
	audit    *audit.Service
}

func NewAssetService(assets storage.AssetRepository, sessions *session.Manager, auditSvc *audit.Service) *AssetService {
	return &AssetService{
		assets:   assets,
		sessions: sessions,
		audit:    auditSvc,
	}
}

func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest) (*storage.Asset, error) {
	actor, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := validateAssetFields(req.Name, req.Category, req.Location, req.Condition, req.PurchaseDate, req.Quantity); err != nil {
		return nil, err
	}

	asset := &storage.Asset{
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Location:     strings.TrimSpace(req.Location),
		Quantity:     req.Quantity,
		Condition:    req.Condition,
		PurchaseDate: req.PurchaseDate,
		Description:  strings.TrimSpace(req.Description),
	}

	id, err := s.assets.Insert(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	if err := s.audit.Record(ctx, audit.Event{
		Action:   audit.ActionAssetCreate,
		Actor:    actor,
		TargetID: strconv.FormatInt(id, 10),
		Details:  map[string]string{"name": asset.Name},
	}); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

// Update performs a full-record replace. The returned count is 0 when no row
// has the requested id; callers branch on it rather than on an error.
func (s *AssetService) Update(ctx context.Context, req UpdateAssetRequest) (int64, error) {
	actor, err := s.requireSession()
	if err != nil {
		return 0, err
	}
	if req.ID <= 0 {
		return 0, fmt.Errorf("%w: asset id is required", ErrValidation)
	}
	if err := validateAssetFields(req.Name, req.Category, req.Location, req.Condition, req.PurchaseDate, req.Quantity); err != nil {
		return 0, err
	}

	asset := &storage.Asset{
		ID:           req.ID,
		Name:         strings.TrimSpace(req.Name),
		Category:     req.Category,
		Location:     strings.TrimSpace(req.Location),
		Quantity:     req.Quantity,
		Condition:    req.Condition,
		PurchaseDate: req.PurchaseDate,
		Description:  strings.TrimSpace(req.Description),
	}

	count, err := s.assets.Update(ctx, asset)
	if err != nil {
		return 0, fmt.Errorf("update asset: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.audit.Record(ctx, audit.Event{
		Action:   audit.ActionAssetUpdate,
		Actor:    actor,
		TargetID: strconv.FormatInt(req.ID, 10),
		Details:  map[string]string{"name": asset.Name},
	}); err != nil {
		return count, fmt.Errorf("update asset: %w", err)
	}
	return count, nil
}

// Delete removes the row immediately; there is no soft delete. Count 0 means
// the id did not exist.
func (s *AssetService) Delete(ctx context.Context, id int64) (int64, error) {
	actor, err := s.requireSession()
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: asset id is required", ErrValidation)
	}

	count, err := s.assets.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete asset: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.audit.Record(ctx, audit.Event{
		Action:   audit.ActionAssetDelete,
		Actor:    actor,
		TargetID: strconv.FormatInt(id, 10),
	}); err != nil {
		return count, fmt.Errorf("delete asset: %w", err)
	}
	return count, nil
}

func (s *AssetService) Get(ctx context.Context, id int64) (*storage.Asset, error) {
	if _, err := s.requireSession(); err != nil {
		return nil, err
	}

	asset, err := s.assets.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

func (s *AssetService) List(ctx context.Context) ([]storage.Asset, error) {
	if _, err := s.requireSession(); err != nil {
		return nil, err
	}

	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Search falls back to List for blank queries, the convention the dashboard
// always followed, now explicit.
func (s *AssetService) Search(ctx context.Context, query string) ([]storage.Asset, error) {
	if _, err := s.requireSession(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		assets, err := s.assets.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("search assets: %w", err)
		}
		return assets, nil
	}

	assets, err := s.assets.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search assets: %w", err)
	}
	return assets, nil
}

func (s *AssetService) requireSession() (string, error) {
	current, ok := s.sessions.Current()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return current.Username, nil
}

func validateAssetFields(name, category, location, condition, purchaseDate string, quantity int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !containsString(Categories, category) {
		return fmt.Errorf("%w: category must be one of %s", ErrValidation, strings.Join(Categories, ", "))
	}
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if !containsString(Conditions, condition) {
		return fmt.Errorf("%w: condition must be one of %s", ErrValidation, strings.Join(Conditions, ", "))
	}
	if !purchaseDatePattern.MatchString(purchaseDate) {
		return fmt.Errorf("%w: purchase date must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
