package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and
// all handlers/services wired together. The event publisher is nil so
// no broker is needed.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	// One shared-cache in-memory database per test, so parallel pool
	// connections see the same tables without tests sharing state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory database")

	err = db.AutoMigrate(&models.Product{}, &models.Category{}, &models.Coupon{})
	require.NoError(t, err, "failed to auto-migrate database")

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)

	catalogService := services.NewCatalogService(productRepo, categoryRepo, couponRepo, nil, services.ShippingConfig{
		Rates:       map[string]float64{"electronics": 10.00},
		DefaultRate: 5.00,
	})
	statsService := services.NewStatsService(productRepo, categoryRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewCouponHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewStatsHandler(statsService).RegisterRoutes(apiV1)

	seedCatalog(t, categoryRepo, productRepo, couponRepo)

	return app
}

// seedCatalog populates the repositories with a small fixture catalog.
func seedCatalog(t *testing.T, categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, couponRepo repositories.CouponRepository) {
	t.Helper()

	categories := []models.Category{
		{Name: "electronics", DiscountPercent: 0.10},
		{Name: "books"},
	}
	for i := range categories {
		require.NoError(t, categoryRepo.Create(&categories[i]))
	}

	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Category: "electronics", Price: 1200.00, Stock: 10},
		{Name: "Keyboard", Description: "Mechanical keyboard", Category: "electronics", Price: 75.00, Stock: 0},
		{Name: "The Hobbit", Description: "A novel by Tolkien", Category: "books", Price: 15.00, Stock: 30},
	}
	for i := range products {
		require.NoError(t, productRepo.Create(&products[i]))
	}

	require.NoError(t, couponRepo.Create(&models.Coupon{Code: "SAVE5", Percent: 0.05, Active: true}))
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		// Some endpoints return arrays; those tests decode themselves.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestListProducts_FilterAndPricing(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products/?category=electronics&min_price=60", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "Category: electronics + Price: from 60.00", body["filters"])
	assert.Equal(t, "10% off electronics", body["pricing"])

	items := body["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Laptop", first["name"])
	assert.InDelta(t, 1080.00, first["final_price"].(float64), 1e-9)
}

func TestListProducts_WithCouponAndSearch(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products/?search=tolkien&coupon=save5", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	items := body["items"].([]interface{})
	hobbit := items[0].(map[string]interface{})
	// Books carry no category discount, so only the 5% coupon applies.
	assert.InDelta(t, 14.25, hobbit["final_price"].(float64), 1e-9)
}

func TestListProducts_UnknownCouponIsBadRequest(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/?coupon=NOPE", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProducts_InvalidRangeIsBadRequest(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/?min_price=100&max_price=10", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/?min_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateProduct_Lifecycle(t *testing.T) {
	app := setupApp(t)

	// Create
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products/", map[string]interface{}{
		"name":     "Wireless Mouse",
		"category": "electronics",
		"price":    25.00,
		"stock":    50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := body["id"].(string)
	require.NotEmpty(t, productID)

	// Fetch it back
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Wireless Mouse", body["name"])

	// Duplicate name conflicts
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", map[string]interface{}{
		"name":     "Wireless Mouse",
		"category": "electronics",
		"price":    30.00,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Update
	resp, body = doJSON(t, app, http.MethodPut, "/api/v1/products/"+productID, map[string]interface{}{
		"name":     "Wireless Mouse",
		"category": "electronics",
		"price":    22.00,
		"stock":    45,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 22.00, body["price"].(float64), 1e-9)

	// Delete, then 404 on fetch
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+productID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProduct_ValidationAndUnknownCategory(t *testing.T) {
	app := setupApp(t)

	// Price must be positive
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/products/", map[string]interface{}{
		"name":     "Freebie",
		"category": "books",
		"price":    0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])

	// Category must exist
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", map[string]interface{}{
		"name":     "Garden Gnome",
		"category": "garden",
		"price":    12.00,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProductPrice_WithShipping(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var laptopID string
	for _, item := range body["items"].([]interface{}) {
		p := item.(map[string]interface{})
		if p["name"] == "Laptop" {
			laptopID = p["id"].(string)
		}
	}
	require.NotEmpty(t, laptopID)

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/products/%s/price?shipping=true", laptopID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	product := body["product"].(map[string]interface{})
	// 1200 * 0.90 + 10.00 flat electronics shipping
	assert.InDelta(t, 1090.00, product["final_price"].(float64), 1e-9)
	assert.Equal(t, "10% off electronics + shipping included", body["pricing"])
}

func TestCreateCoupon_ValidatesPercent(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/coupons/", map[string]interface{}{
		"code":    "TOOMUCH",
		"percent": 1.5,
		"active":  true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/coupons/", map[string]interface{}{
		"code":    "HALF",
		"percent": 0.5,
		"active":  true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate code conflicts
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/coupons/", map[string]interface{}{
		"code":    "half",
		"percent": 0.5,
		"active":  true,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateCategory_AndStats(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/categories/", map[string]interface{}{
		"name":             "garden",
		"discount_percent": 0.20,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total_products"])
	assert.Equal(t, float64(2), body["in_stock"])
	// Both electronics products are discounted, the book is not.
	assert.Equal(t, float64(2), body["discounted"])
	assert.InDelta(t, 15.00, body["min_price"].(float64), 1e-9)
	assert.InDelta(t, 1200.00, body["max_price"].(float64), 1e-9)

	byCategory := body["by_category"].(map[string]interface{})
	electronics := byCategory["electronics"].(map[string]interface{})
	assert.Equal(t, float64(2), electronics["count"])
}
