package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

func openPostgres(cfg *config.AppConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Passwd, cfg.Database.Name)
	loglevel := logger.Silent
	if cfg.Database.Debug {
		loglevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(loglevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.Database.IdleConn)
	return db, nil
}

// GormStore is the relational implementation of the catalog facade
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migrations
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) productQuery(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&domain.Product{})
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MarkaID != 0 {
		query = query.Where("marka_id = ?", filter.MarkaID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		query = query.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
	}
	return query
}

func (s *GormStore) Products(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var products []domain.Product
	err := s.productQuery(ctx, filter).Order("created_at DESC").Find(&products).Error
	if err != nil {
		zap.L().Warn("product query degraded to empty", zap.Error(err))
		return []domain.Product{}, nil
	}
	s.enrichProducts(ctx, products)
	return products, nil
}

func (s *GormStore) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		zap.L().Warn("product query failed", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	one := []domain.Product{p}
	s.enrichProducts(ctx, one)
	return &one[0], nil
}

func (s *GormStore) enrichProducts(ctx context.Context, products []domain.Product) {
	if len(products) == 0 {
		return
	}
	var categories []domain.Category
	var markas []domain.Marka
	_ = s.db.WithContext(ctx).Find(&categories).Error
	_ = s.db.WithContext(ctx).Find(&markas).Error
	catByID := make(map[int64]*domain.Category, len(categories))
	for i := range categories {
		catByID[categories[i].ID] = &categories[i]
	}
	markaByID := make(map[int64]*domain.Marka, len(markas))
	for i := range markas {
		markaByID[markas[i].ID] = &markas[i]
	}
	for i := range products {
		products[i].Category = catByID[products[i].CategoryID]
		products[i].Marka = markaByID[products[i].MarkaID]
	}
}

func (s *GormStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.ID = 0
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return errors.Wrap(s.db.WithContext(ctx).Create(p).Error, "create product")
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	var existing domain.Product
	err := s.db.WithContext(ctx).First(&existing, p.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "query product")
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	return errors.Wrap(s.db.WithContext(ctx).Save(p).Error, "update product")
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete product")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------
// Categories

func (s *GormStore) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&categories).Error; err != nil {
		zap.L().Warn("category query degraded to empty", zap.Error(err))
		return []domain.Category{}, nil
	}
	counts := s.productCounts(ctx, "category_id")
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (s *GormStore) Category(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		zap.L().Warn("category query failed", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	counts := s.productCounts(ctx, "category_id")
	c.ProductCount = counts[c.ID]
	return &c, nil
}

// productCounts recomputes derived reference counts grouped by column
func (s *GormStore) productCounts(ctx context.Context, column string) map[int64]int64 {
	type row struct {
		Ref   int64
		Total int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Select(column + " AS ref, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil
	}
	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.Ref] = r.Total
	}
	return counts
}

func (s *GormStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = 0
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return errors.Wrap(s.db.WithContext(ctx).Create(c).Error, "create category")
}

func (s *GormStore) UpdateCategory(ctx context.Context, c *domain.Category) error {
	var existing domain.Category
	err := s.db.WithContext(ctx).First(&existing, c.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "query category")
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	return errors.Wrap(s.db.WithContext(ctx).Save(c).Error, "update category")
}

func (s *GormStore) DeleteCategory(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete category")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------
// Markas

func (s *GormStore) Markas(ctx context.Context) ([]domain.Marka, error) {
	var markas []domain.Marka
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&markas).Error; err != nil {
		zap.L().Warn("marka query degraded to empty", zap.Error(err))
		return []domain.Marka{}, nil
	}
	counts := s.productCounts(ctx, "marka_id")
	for i := range markas {
		markas[i].ProductCount = counts[markas[i].ID]
	}
	return markas, nil
}

func (s *GormStore) Marka(ctx context.Context, id int64) (*domain.Marka, error) {
	var m domain.Marka
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		zap.L().Warn("marka query failed", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	counts := s.productCounts(ctx, "marka_id")
	m.ProductCount = counts[m.ID]
	return &m, nil
}

func (s *GormStore) CreateMarka(ctx context.Context, m *domain.Marka) error {
	m.ID = 0
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	return errors.Wrap(s.db.WithContext(ctx).Create(m).Error, "create marka")
}

func (s *GormStore) UpdateMarka(ctx context.Context, m *domain.Marka) error {
	var existing domain.Marka
	err := s.db.WithContext(ctx).First(&existing, m.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "query marka")
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	return errors.Wrap(s.db.WithContext(ctx).Save(m).Error, "update marka")
}

func (s *GormStore) DeleteMarka(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.Marka{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete marka")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------
// Users

func (s *GormStore) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		zap.L().Warn("user query degraded to empty", zap.Error(err))
		return []domain.User{}, nil
	}
	return users, nil
}

func (s *GormStore) User(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, username).
		First(&u).Error
	if err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == 0 {
		u.ID = common.UUIDint64()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return errors.Wrap(s.db.WithContext(ctx).Create(u).Error, "create user")
}

func (s *GormStore) UpdateUser(ctx context.Context, u *domain.User) error {
	var existing domain.User
	err := s.db.WithContext(ctx).First(&existing, u.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "query user")
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	return errors.Wrap(s.db.WithContext(ctx).Save(u).Error, "update user")
}

func (s *GormStore) DeleteUser(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------
// Featured lists

func (s *GormStore) FeaturedEntries(ctx context.Context, listType string) ([]domain.FeaturedEntry, error) {
	var entries []domain.FeaturedEntry
	err := s.db.WithContext(ctx).
		Where("list_type = ?", listType).
		Order("sort_order ASC").
		Find(&entries).Error
	if err != nil {
		zap.L().Warn("featured query degraded to empty",
			zap.String("list_type", listType), zap.Error(err))
		return []domain.FeaturedEntry{}, nil
	}
	return entries, nil
}

// SaveFeaturedEntries replaces the whole list for a type in one transaction;
// entry ids are positional and reassigned by the curator on every mutation
func (s *GormStore) SaveFeaturedEntries(ctx context.Context, listType string, entries []domain.FeaturedEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_type = ?", listType).
			Delete(&domain.FeaturedEntry{}).Error; err != nil {
			return errors.Wrap(err, "clear featured entries")
		}
		for i := range entries {
			entries[i].ListType = listType
			if err := tx.Create(&entries[i]).Error; err != nil {
				return errors.Wrap(err, "save featured entry")
			}
		}
		return nil
	})
}

// ------------------------------------------------------------------
// Settings

func (s *GormStore) GetSetting(ctx context.Context, stype, name string) (string, error) {
	var cfg domain.SysConfig
	err := s.db.WithContext(ctx).
		Where("type = ? AND name = ?", stype, name).
		First(&cfg).Error
	if err != nil {
		return "", ErrNotFound
	}
	return cfg.Value, nil
}

func (s *GormStore) SaveSetting(ctx context.Context, stype, name, value string) error {
	var count int64
	s.db.WithContext(ctx).Model(&domain.SysConfig{}).
		Where("type = ? AND name = ?", stype, name).
		Count(&count)
	if count > 0 {
		return errors.Wrap(s.db.WithContext(ctx).Model(&domain.SysConfig{}).
			Where("type = ? AND name = ?", stype, name).
			Updates(map[string]interface{}{
				"value":      value,
				"updated_at": time.Now(),
			}).Error, "update setting")
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&domain.SysConfig{
		Type:  stype,
		Name:  name,
		Value: value,
	}).Error, "create setting")
}

// ------------------------------------------------------------------
// Operation audit log

func (s *GormStore) AddOprLog(ctx context.Context, log *domain.SysOprLog) error {
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	if log.OptTime.IsZero() {
		log.OptTime = time.Now()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(log).Error, "create opr log")
}

func (s *GormStore) PruneOprLogs(ctx context.Context, before time.Time) error {
	return errors.Wrap(s.db.WithContext(ctx).
		Where("opt_time < ?", before).
		Delete(&domain.SysOprLog{}).Error, "prune opr logs")
}
