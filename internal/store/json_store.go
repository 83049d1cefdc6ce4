package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// collection file names, one JSON array per entity type
const (
	fileProducts   = "products.json"
	fileCategories = "categories.json"
	fileMarkas     = "markas.json"
	fileUsers      = "users.json"
	fileSettings   = "settings.json"
	fileOprLogs    = "oprlogs.json"
)

func featuredFile(listType string) string {
	return "featured-" + listType + ".json"
}

// JSONStore keeps each collection in its own flat JSON file, read wholesale
// on every access and rewritten wholesale on every mutation. Each file is
// guarded by its own RWMutex so a mutation is an atomic read-modify-write;
// the reference system had no locking here and could lose updates under
// concurrent writes.
type JSONStore struct {
	dataDir string

	mu     sync.Mutex
	locks  map[string]*sync.RWMutex
}

func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := common.EnsureDir(dataDir); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &JSONStore{
		dataDir: dataDir,
		locks:   make(map[string]*sync.RWMutex),
	}, nil
}

func (s *JSONStore) lock(file string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[file]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[file] = l
	}
	return l
}

// readFile loads a collection file into v. A missing file is an empty
// collection, not an error.
func (s *JSONStore) readFile(file string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", file)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "parse %s", file)
	}
	return nil
}

// writeFile replaces a collection file wholesale
func (s *JSONStore) writeFile(file string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", file)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, file), data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", file)
	}
	return nil
}

// productRecord tolerates the two historical reference-field schemes found
// in older data files: a bare "category"/"marka" id and the camel-cased
// "categoryId"/"markaId". Canonical keys are category_id/marka_id; legacy
// keys migrate away on the next whole-file write.
type productRecord struct {
	domain.Product
	AltCategory   *int64 `json:"category,omitempty"`
	AltCategoryID *int64 `json:"categoryId,omitempty"`
	AltMarka      *int64 `json:"marka,omitempty"`
	AltMarkaID    *int64 `json:"markaId,omitempty"`
}

func (r *productRecord) normalize() domain.Product {
	p := r.Product
	if p.CategoryID == 0 {
		switch {
		case r.AltCategoryID != nil:
			p.CategoryID = *r.AltCategoryID
		case r.AltCategory != nil:
			p.CategoryID = *r.AltCategory
		}
	}
	if p.MarkaID == 0 {
		switch {
		case r.AltMarkaID != nil:
			p.MarkaID = *r.AltMarkaID
		case r.AltMarka != nil:
			p.MarkaID = *r.AltMarka
		}
	}
	p.Category = nil
	p.Marka = nil
	return p
}

func (s *JSONStore) loadProducts() ([]domain.Product, error) {
	var records []productRecord
	if err := s.readFile(fileProducts, &records); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].normalize())
	}
	return products, nil
}

func (s *JSONStore) loadCategories() ([]domain.Category, error) {
	var categories []domain.Category
	err := s.readFile(fileCategories, &categories)
	return categories, err
}

func (s *JSONStore) loadMarkas() ([]domain.Marka, error) {
	var markas []domain.Marka
	err := s.readFile(fileMarkas, &markas)
	return markas, err
}

// nextID assigns the next sequential id for a catalog collection
func nextID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// ------------------------------------------------------------------
// Products

func (s *JSONStore) Products(_ context.Context, filter ProductFilter) ([]domain.Product, error) {
	l := s.lock(fileProducts)
	l.RLock()
	products, err := s.loadProducts()
	l.RUnlock()
	if err != nil {
		zap.L().Warn("product read degraded to empty", zap.Error(err))
		return []domain.Product{}, nil
	}

	filtered := products[:0:0]
	for i := range products {
		if filter.Match(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}
	s.enrichProducts(filtered)
	return filtered, nil
}

func (s *JSONStore) Product(_ context.Context, id int64) (*domain.Product, error) {
	l := s.lock(fileProducts)
	l.RLock()
	products, err := s.loadProducts()
	l.RUnlock()
	if err != nil {
		zap.L().Warn("product read degraded to empty", zap.Error(err))
		return nil, ErrNotFound
	}
	for i := range products {
		if products[i].ID == id {
			one := products[i : i+1 : i+1]
			s.enrichProducts(one)
			return &one[0], nil
		}
	}
	return nil, ErrNotFound
}

// enrichProducts joins each product to its category and marka records. A
// reference with no matching record resolves to nil rather than failing
// the whole result.
func (s *JSONStore) enrichProducts(products []domain.Product) {
	if len(products) == 0 {
		return
	}
	categories, err := s.Categories(context.Background())
	if err != nil {
		categories = nil
	}
	markas, err := s.Markas(context.Background())
	if err != nil {
		markas = nil
	}
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

func (s *JSONStore) CreateProduct(_ context.Context, p *domain.Product) error {
	l := s.lock(fileProducts)
	l.Lock()
	defer l.Unlock()

	products, err := s.loadProducts()
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	ids := make([]int64, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	now := time.Now()
	p.ID = nextID(ids)
	p.CreatedAt = now
	p.UpdatedAt = now
	products = append(products, *p)
	return s.writeFile(fileProducts, products)
}

func (s *JSONStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	l := s.lock(fileProducts)
	l.Lock()
	defer l.Unlock()

	products, err := s.loadProducts()
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	for i := range products {
		if products[i].ID == p.ID {
			p.CreatedAt = products[i].CreatedAt
			p.UpdatedAt = time.Now()
			products[i] = *p
			return s.writeFile(fileProducts, products)
		}
	}
	return ErrNotFound
}

func (s *JSONStore) DeleteProduct(_ context.Context, id int64) error {
	l := s.lock(fileProducts)
	l.Lock()
	defer l.Unlock()

	products, err := s.loadProducts()
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	kept := products[:0:0]
	found := false
	for i := range products {
		if products[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, products[i])
	}
	if !found {
		return ErrNotFound
	}
	return s.writeFile(fileProducts, kept)
}

// ------------------------------------------------------------------
// Categories

func (s *JSONStore) Categories(_ context.Context) ([]domain.Category, error) {
	l := s.lock(fileCategories)
	l.RLock()
	categories, err := s.loadCategories()
	l.RUnlock()
	if err != nil {
		zap.L().Warn("category read degraded to empty", zap.Error(err))
		return []domain.Category{}, nil
	}

	counts := s.productCountsBy(func(p *domain.Product) int64 { return p.CategoryID })
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (s *JSONStore) Category(ctx context.Context, id int64) (*domain.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, ErrNotFound
}

// productCountsBy recomputes derived counts on read; they are never stored
func (s *JSONStore) productCountsBy(key func(*domain.Product) int64) map[int64]int64 {
	l := s.lock(fileProducts)
	l.RLock()
	products, err := s.loadProducts()
	l.RUnlock()
	if err != nil {
		return nil
	}
	counts := make(map[int64]int64)
	for i := range products {
		counts[key(&products[i])]++
	}
	return counts
}

func (s *JSONStore) CreateCategory(_ context.Context, c *domain.Category) error {
	l := s.lock(fileCategories)
	l.Lock()
	defer l.Unlock()

	categories, err := s.loadCategories()
	if err != nil {
		return errors.Wrap(err, "load categories")
	}
	ids := make([]int64, 0, len(categories))
	for i := range categories {
		ids = append(ids, categories[i].ID)
	}
	now := time.Now()
	c.ID = nextID(ids)
	c.CreatedAt = now
	c.UpdatedAt = now
	categories = append(categories, *c)
	return s.writeFile(fileCategories, categories)
}

func (s *JSONStore) UpdateCategory(_ context.Context, c *domain.Category) error {
	l := s.lock(fileCategories)
	l.Lock()
	defer l.Unlock()

	categories, err := s.loadCategories()
	if err != nil {
		return errors.Wrap(err, "load categories")
	}
	for i := range categories {
		if categories[i].ID == c.ID {
			c.CreatedAt = categories[i].CreatedAt
			c.UpdatedAt = time.Now()
			categories[i] = *c
			return s.writeFile(fileCategories, categories)
		}
	}
	return ErrNotFound
}

func (s *JSONStore) DeleteCategory(_ context.Context, id int64) error {
	l := s.lock(fileCategories)
	l.Lock()
	defer l.Unlock()

	categories, err := s.loadCategories()
	if err != nil {
		return errors.Wrap(err, "load categories")
	}
	kept := categories[:0:0]
	found := false
	for i := range categories {
		if categories[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, categories[i])
	}
	if !found {
		return ErrNotFound
	}
	return s.writeFile(fileCategories, kept)
}

// ------------------------------------------------------------------
// Markas

func (s *JSONStore) Markas(_ context.Context) ([]domain.Marka, error) {
	l := s.lock(fileMarkas)
	l.RLock()
	markas, err := s.loadMarkas()
	l.RUnlock()
	if err != nil {
		zap.L().Warn("marka read degraded to empty", zap.Error(err))
		return []domain.Marka{}, nil
	}

	counts := s.productCountsBy(func(p *domain.Product) int64 { return p.MarkaID })
	for i := range markas {
		markas[i].ProductCount = counts[markas[i].ID]
	}
	return markas, nil
}

func (s *JSONStore) Marka(ctx context.Context, id int64) (*domain.Marka, error) {
	markas, err := s.Markas(ctx)
	if err != nil {
		return nil, err
	}
	for i := range markas {
		if markas[i].ID == id {
			return &markas[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONStore) CreateMarka(_ context.Context, m *domain.Marka) error {
	l := s.lock(fileMarkas)
	l.Lock()
	defer l.Unlock()

	markas, err := s.loadMarkas()
	if err != nil {
		return errors.Wrap(err, "load markas")
	}
	ids := make([]int64, 0, len(markas))
	for i := range markas {
		ids = append(ids, markas[i].ID)
	}
	now := time.Now()
	m.ID = nextID(ids)
	m.CreatedAt = now
	m.UpdatedAt = now
	markas = append(markas, *m)
	return s.writeFile(fileMarkas, markas)
}

func (s *JSONStore) UpdateMarka(_ context.Context, m *domain.Marka) error {
	l := s.lock(fileMarkas)
	l.Lock()
	defer l.Unlock()

	markas, err := s.loadMarkas()
	if err != nil {
		return errors.Wrap(err, "load markas")
	}
	for i := range markas {
		if markas[i].ID == m.ID {
			m.CreatedAt = markas[i].CreatedAt
			m.UpdatedAt = time.Now()
			markas[i] = *m
			return s.writeFile(fileMarkas, markas)
		}
	}
	return ErrNotFound
}

func (s *JSONStore) DeleteMarka(_ context.Context, id int64) error {
	l := s.lock(fileMarkas)
	l.Lock()
	defer l.Unlock()

	markas, err := s.loadMarkas()
	if err != nil {
		return errors.Wrap(err, "load markas")
	}
	kept := markas[:0:0]
	found := false
	for i := range markas {
		if markas[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, markas[i])
	}
	if !found {
		return ErrNotFound
	}
	return s.writeFile(fileMarkas, kept)
}

// ------------------------------------------------------------------
// Users

// userRecord carries the credential hash that the API-facing model hides
// behind json:"-"; without it a whole-file rewrite would drop every password.
type userRecord struct {
	domain.User
	Password string `json:"password"`
}

func (r *userRecord) normalize() domain.User {
	u := r.User
	u.Password = r.Password
	return u
}

func (s *JSONStore) loadUsers() ([]domain.User, error) {
	var records []userRecord
	if err := s.readFile(fileUsers, &records); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].normalize())
	}
	return users, nil
}

func (s *JSONStore) saveUsers(users []domain.User) error {
	records := make([]userRecord, 0, len(users))
	for i := range users {
		records = append(records, userRecord{User: users[i], Password: users[i].Password})
	}
	return s.writeFile(fileUsers, records)
}

func (s *JSONStore) Users(_ context.Context) ([]domain.User, error) {
	l := s.lock(fileUsers)
	l.RLock()
	defer l.RUnlock()
	users, err := s.loadUsers()
	if err != nil {
		zap.L().Warn("user read degraded to empty", zap.Error(err))
		return []domain.User{}, nil
	}
	return users, nil
}

func (s *JSONStore) User(_ context.Context, id int64) (*domain.User, error) {
	l := s.lock(fileUsers)
	l.RLock()
	defer l.RUnlock()
	users, err := s.loadUsers()
	if err != nil {
		return nil, ErrNotFound
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONStore) UserByUsername(_ context.Context, username string) (*domain.User, error) {
	l := s.lock(fileUsers)
	l.RLock()
	defer l.RUnlock()
	users, err := s.loadUsers()
	if err != nil {
		return nil, ErrNotFound
	}
	for i := range users {
		if users[i].Username == username || users[i].Email == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONStore) CreateUser(_ context.Context, u *domain.User) error {
	l := s.lock(fileUsers)
	l.Lock()
	defer l.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return errors.Wrap(err, "load users")
	}
	if u.ID == 0 {
		u.ID = common.UUIDint64()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	users = append(users, *u)
	return s.saveUsers(users)
}

func (s *JSONStore) UpdateUser(_ context.Context, u *domain.User) error {
	l := s.lock(fileUsers)
	l.Lock()
	defer l.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return errors.Wrap(err, "load users")
	}
	for i := range users {
		if users[i].ID == u.ID {
			u.CreatedAt = users[i].CreatedAt
			u.UpdatedAt = time.Now()
			users[i] = *u
			return s.saveUsers(users)
		}
	}
	return ErrNotFound
}

func (s *JSONStore) DeleteUser(_ context.Context, id int64) error {
	l := s.lock(fileUsers)
	l.Lock()
	defer l.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return errors.Wrap(err, "load users")
	}
	kept := users[:0:0]
	found := false
	for i := range users {
		if users[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, users[i])
	}
	if !found {
		return ErrNotFound
	}
	return s.saveUsers(kept)
}

// ------------------------------------------------------------------
// Featured lists

func (s *JSONStore) FeaturedEntries(_ context.Context, listType string) ([]domain.FeaturedEntry, error) {
	file := featuredFile(listType)
	l := s.lock(file)
	l.RLock()
	defer l.RUnlock()

	var entries []domain.FeaturedEntry
	if err := s.readFile(file, &entries); err != nil {
		zap.L().Warn("featured read degraded to empty",
			zap.String("list_type", listType), zap.Error(err))
		return []domain.FeaturedEntry{}, nil
	}
	for i := range entries {
		entries[i].ListType = listType
	}
	return entries, nil
}

func (s *JSONStore) SaveFeaturedEntries(_ context.Context, listType string, entries []domain.FeaturedEntry) error {
	file := featuredFile(listType)
	l := s.lock(file)
	l.Lock()
	defer l.Unlock()

	if entries == nil {
		entries = []domain.FeaturedEntry{}
	}
	return s.writeFile(file, entries)
}

// ------------------------------------------------------------------
// Settings

func (s *JSONStore) loadSettings() ([]domain.SysConfig, error) {
	var settings []domain.SysConfig
	err := s.readFile(fileSettings, &settings)
	return settings, err
}

func (s *JSONStore) GetSetting(_ context.Context, stype, name string) (string, error) {
	l := s.lock(fileSettings)
	l.RLock()
	defer l.RUnlock()
	settings, err := s.loadSettings()
	if err != nil {
		return "", ErrNotFound
	}
	for i := range settings {
		if settings[i].Type == stype && settings[i].Name == name {
			return settings[i].Value, nil
		}
	}
	return "", ErrNotFound
}

func (s *JSONStore) SaveSetting(_ context.Context, stype, name, value string) error {
	l := s.lock(fileSettings)
	l.Lock()
	defer l.Unlock()

	settings, err := s.loadSettings()
	if err != nil {
		return errors.Wrap(err, "load settings")
	}
	now := time.Now()
	for i := range settings {
		if settings[i].Type == stype && settings[i].Name == name {
			settings[i].Value = value
			settings[i].UpdatedAt = now
			return s.writeFile(fileSettings, settings)
		}
	}
	settings = append(settings, domain.SysConfig{
		ID:        common.UUIDint64(),
		Sort:      len(settings),
		Type:      stype,
		Name:      name,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return s.writeFile(fileSettings, settings)
}

// ------------------------------------------------------------------
// Operation audit log

func (s *JSONStore) AddOprLog(_ context.Context, log *domain.SysOprLog) error {
	l := s.lock(fileOprLogs)
	l.Lock()
	defer l.Unlock()

	var logs []domain.SysOprLog
	if err := s.readFile(fileOprLogs, &logs); err != nil {
		return errors.Wrap(err, "load opr logs")
	}
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	if log.OptTime.IsZero() {
		log.OptTime = time.Now()
	}
	logs = append(logs, *log)
	return s.writeFile(fileOprLogs, logs)
}

func (s *JSONStore) PruneOprLogs(_ context.Context, before time.Time) error {
	l := s.lock(fileOprLogs)
	l.Lock()
	defer l.Unlock()

	var logs []domain.SysOprLog
	if err := s.readFile(fileOprLogs, &logs); err != nil {
		return errors.Wrap(err, "load opr logs")
	}
	kept := logs[:0:0]
	for i := range logs {
		if logs[i].OptTime.After(before) {
			kept = append(kept, logs[i])
		}
	}
	return s.writeFile(fileOprLogs, kept)
}
