package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type productCsvRow struct {
	ID          int64   `csv:"id"`
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Price       float64 `csv:"price"`
	Category    string  `csv:"category"`
	Marka       string  `csv:"marka"`
	Stock       int     `csv:"stock"`
	Status      string  `csv:"status"`
	CreatedAt   string  `csv:"created_at"`
}

// exportProducts streams the filtered product list as a CSV download
func exportProducts(c echo.Context) error {
	filter := parseProductFilter(c)
	products, err := GetStore(c).Products(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}

	rows := make([]productCsvRow, 0, len(products))
	for i := range products {
		p := products[i]
		row := productCsvRow{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		}
		if p.Category != nil {
			row.Category = p.Category.Name
		}
		if p.Marka != nil {
			row.Marka = p.Marka.Name
		}
		rows = append(rows, row)
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to encode CSV", nil)
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
