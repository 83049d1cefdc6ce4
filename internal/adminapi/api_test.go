package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/featured"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/webserver"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type testEnv struct {
	ws    *webserver.WebServer
	store store.Store
	cfg   *config.AppConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	workdir := t.TempDir()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = workdir
	cfg.System.DataDir = filepath.Join(workdir, "data")
	cfg.Web.UploadDir = filepath.Join(workdir, "uploads")
	cfg.Web.Secret = "test-secret"
	cfg.Logger.FileEnable = false

	s, err := store.NewJSONStore(cfg.GetDataDir())
	require.NoError(t, err)

	curators := map[string]*featured.Curator{
		domain.FeaturedProducts:   featured.NewCurator(s, domain.FeaturedProducts, cfg.Featured.MaxProducts),
		domain.FeaturedCategories: featured.NewCurator(s, domain.FeaturedCategories, cfg.Featured.MaxCategories),
		domain.FeaturedMarkas:     featured.NewCurator(s, domain.FeaturedMarkas, cfg.Featured.MaxMarkas),
	}

	ws := webserver.New(&cfg, s, curators)
	Register(ws)
	return &testEnv{ws: ws, store: s, cfg: &cfg}
}

func (e *testEnv) addUser(t *testing.T, username, password, role string) *domain.User {
	t.Helper()
	hash, err := common.HashPassword(password)
	require.NoError(t, err)
	u := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Role:     role,
		Status:   common.ENABLED,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	t.Helper()
	token, err := webserver.IssueToken(u, e.cfg.Web.Secret)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ws.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success, "unexpected failure response: %s", rec.Body.String())
	return resp.Data
}

func TestLoginIssuesToken(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin", "secret123", domain.RoleSuperAdmin)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, domain.RoleSuperAdmin, data["role"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin", "secret123", domain.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/api/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectPlainUserRole(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser(t, "visitor", "secret123", domain.RoleUser)

	rec := env.do(t, http.MethodGet, "/admin/api/products", env.token(t, u), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDestructiveRoutesRequireSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, "admin", "secret123", domain.RoleAdmin)
	super := env.addUser(t, "root", "secret123", domain.RoleSuperAdmin)

	require.NoError(t, env.store.CreateProduct(context.Background(),
		&domain.Product{Name: "doomed", Price: 1, Status: "active"}))

	rec := env.do(t, http.MethodDelete, "/admin/api/products/1", env.token(t, admin), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/admin/api/products/1", env.token(t, super), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, "admin", "secret123", domain.RoleAdmin)
	token := env.token(t, admin)

	rec := env.do(t, http.MethodPost, "/admin/api/products", token,
		`{"name":"drill","price":99.5,"stock":4,"status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["id"])

	rec = env.do(t, http.MethodPut, "/admin/api/products/1", token,
		`{"name":"impact drill","price":120,"stock":4,"status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/admin/api/products/1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeData(t, rec)
	assert.Equal(t, "impact drill", data["name"])

	// client supplied ids are ignored on create
	rec = env.do(t, http.MethodPost, "/admin/api/products", token,
		`{"id":77,"name":"hammer","price":10,"status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeData(t, rec)
	assert.Equal(t, float64(2), data["id"])
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, "admin", "secret123", domain.RoleAdmin)
	token := env.token(t, admin)

	rec := env.do(t, http.MethodPost, "/admin/api/products", token, `{"price":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/api/products", token,
		`{"name":"x","price":-4}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicProductsHideInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.CreateProduct(ctx, &domain.Product{Name: "live", Price: 1, Status: "active"}))
	require.NoError(t, env.store.CreateProduct(ctx, &domain.Product{Name: "off", Price: 2, Status: "inactive"}))

	rec := env.do(t, http.MethodGet, "/api/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "live", resp.Data[0]["name"])

	rec = env.do(t, http.MethodGet, "/api/products/2", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeaturedEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, "admin", "secret123", domain.RoleAdmin)
	token := env.token(t, admin)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, env.store.CreateProduct(ctx, &domain.Product{
			Name: "p", Price: float64(i + 1), Status: "active",
		}))
	}

	rec := env.do(t, http.MethodPut, "/admin/api/featured/products", token, `{"ids":[3,1]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/featured/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, float64(3), resp.Data[0]["id"])
	assert.Equal(t, float64(1), resp.Data[1]["id"])

	// over-limit replace is rejected with a limit error
	rec = env.do(t, http.MethodPut, "/admin/api/featured/products", token,
		`{"ids":[1,2,3,1,2,3,1,2,3]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "LIMIT_EXCEEDED")

	rec = env.do(t, http.MethodDelete, "/admin/api/featured/products/1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err := env.store.FeaturedEntries(ctx, domain.FeaturedProducts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, int64(1), entries[0].TargetID)
}

func TestFeaturedUnknownListType(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/featured/banners", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserManagementSuperAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, "admin", "secret123", domain.RoleAdmin)
	super := env.addUser(t, "root", "secret123", domain.RoleSuperAdmin)

	rec := env.do(t, http.MethodGet, "/admin/api/users", env.token(t, admin), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/api/users", env.token(t, super),
		`{"username":"editor","email":"editor@example.com","password":"secret123","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// duplicate username is rejected
	rec = env.do(t, http.MethodPost, "/admin/api/users", env.token(t, super),
		`{"username":"editor","email":"other@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
