package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/webserver"
)

// Register wires all public and admin routes onto the web server
func Register(ws *webserver.WebServer) {
	// Public catalog
	ws.PubGET("/health", health)
	ws.PubPOST("/auth/login", login)
	ws.PubGET("/products", listPublicProducts)
	ws.PubGET("/products/:id", getPublicProduct)
	ws.PubGET("/categories", listPublicCategories)
	ws.PubGET("/markas", listPublicMarkas)
	ws.PubGET("/featured/:type", listPublicFeatured)

	// Admin panel, JWT and role gated by the webserver group middleware
	ws.ApiGET("/whoami", whoami)

	ws.ApiGET("/products", listProducts)
	ws.ApiGET("/products/export", exportProducts)
	ws.ApiGET("/products/:id", getProduct)
	ws.ApiPOST("/products", createProduct)
	ws.ApiPUT("/products/:id", updateProduct)
	ws.ApiDELETE("/products/:id", deleteProduct, webserver.RequireSuperAdmin)

	ws.ApiGET("/categories", listCategories)
	ws.ApiGET("/categories/:id", getCategory)
	ws.ApiPOST("/categories", createCategory)
	ws.ApiPUT("/categories/:id", updateCategory)
	ws.ApiDELETE("/categories/:id", deleteCategory, webserver.RequireSuperAdmin)

	ws.ApiGET("/markas", listMarkas)
	ws.ApiGET("/markas/:id", getMarka)
	ws.ApiPOST("/markas", createMarka)
	ws.ApiPUT("/markas/:id", updateMarka)
	ws.ApiDELETE("/markas/:id", deleteMarka, webserver.RequireSuperAdmin)

	ws.ApiGET("/featured/:type", listFeatured)
	ws.ApiPUT("/featured/:type", replaceFeatured)
	ws.ApiDELETE("/featured/:type/:id", removeFeatured)

	ws.ApiGET("/users", listUsers, webserver.RequireSuperAdmin)
	ws.ApiGET("/users/:id", getUser, webserver.RequireSuperAdmin)
	ws.ApiPOST("/users", createUser, webserver.RequireSuperAdmin)
	ws.ApiPUT("/users/:id", updateUser, webserver.RequireSuperAdmin)
	ws.ApiDELETE("/users/:id", deleteUser, webserver.RequireSuperAdmin)

	ws.ApiPOST("/upload", uploadImage)

	ws.ApiGET("/settings", getSetting)
	ws.ApiPUT("/settings", saveSetting)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
