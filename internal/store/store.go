// Package store is the data access facade for the catalog. Two backends
// implement the same contract: a flat-file JSON store and a postgres store.
// The backend is selected once at startup from configuration and never
// switched at runtime.
//
// Read policy: list reads degrade to an empty result when the underlying
// storage fails (the failure is logged, never surfaced to handlers). Point
// reads return ErrNotFound. Writes return wrapped errors for the caller to
// map to a response.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
)

// ProductFilter narrows a product list query. All constraints are
// AND-combined; zero values impose no constraint.
type ProductFilter struct {
	CategoryID int64
	MarkaID    int64
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Status     string
}

// Match applies the filter against a single product in memory. The flat-file
// backend uses it directly; the relational backend expresses the same
// constraints in SQL.
func (f ProductFilter) Match(p *domain.Product) bool {
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.MarkaID != 0 && p.MarkaID != f.MarkaID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

// Store is the backend-agnostic catalog contract
type Store interface {
	Products(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	Markas(ctx context.Context) ([]domain.Marka, error)
	Marka(ctx context.Context, id int64) (*domain.Marka, error)
	CreateMarka(ctx context.Context, m *domain.Marka) error
	UpdateMarka(ctx context.Context, m *domain.Marka) error
	DeleteMarka(ctx context.Context, id int64) error

	Users(ctx context.Context) ([]domain.User, error)
	User(ctx context.Context, id int64) (*domain.User, error)
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id int64) error

	FeaturedEntries(ctx context.Context, listType string) ([]domain.FeaturedEntry, error)
	SaveFeaturedEntries(ctx context.Context, listType string, entries []domain.FeaturedEntry) error

	GetSetting(ctx context.Context, stype, name string) (string, error)
	SaveSetting(ctx context.Context, stype, name, value string) error

	AddOprLog(ctx context.Context, log *domain.SysOprLog) error
	PruneOprLogs(ctx context.Context, before time.Time) error
}

// New builds the store for the configured backend
func New(cfg *config.AppConfig) (Store, error) {
	switch cfg.Database.Type {
	case config.BackendPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case config.BackendJSON, "":
		return NewJSONStore(cfg.GetDataDir())
	default:
		return nil, errors.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}
