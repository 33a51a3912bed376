package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"crmpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB opens a per-test in-memory sqlite database with foreign keys
// enforced, so the RESTRICT constraints behave like they do on postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection avoids shared-cache table locks between the pool
	// and explicit transactions.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// authAs stands in for the JWT middleware, injecting the user ID the way the
// real middleware does after verifying a token.
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID.String())
		c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Password: "password123",
		Name:     "Test User",
		Role:     "staff",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedClient(t *testing.T, db *gorm.DB, user models.User) models.Client {
	t.Helper()
	client := models.Client{
		CreatedByUserID: user.ID,
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           fmt.Sprintf("client-%s@example.com", uuid.NewString()[:8]),
		IsActive:        true,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return client
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    price,
		Cost:     price / 2,
		Stock:    10,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, user models.User, client models.Client) models.Order {
	t.Helper()
	order := models.Order{
		CreatedByUserID: user.ID,
		OrderNumber:     "ORD-TEST-" + uuid.NewString()[:8],
		ClientID:        client.ID,
		OrderDate:       time.Now(),
		Status:          models.OrderStatusPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func seedDomain(t *testing.T, db *gorm.DB, name string) models.ProfessionalDomain {
	t.Helper()
	domain := models.ProfessionalDomain{Name: name, PaymentCode: "PC-" + name}
	if err := db.Create(&domain).Error; err != nil {
		t.Fatalf("failed to seed domain: %v", err)
	}
	return domain
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

// doJSON performs a request with a JSON body against the router under test.
func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the success envelope into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	if env.Status != "success" {
		t.Fatalf("expected success envelope, got %s", w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("failed to decode data %q: %v", string(env.Data), err)
		}
	}
}

// decodeResults unwraps the list envelope into out.
func decodeResults(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Status  string          `json:"status"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	if env.Status != "success" {
		t.Fatalf("expected success envelope, got %s", w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Results, out); err != nil {
			t.Fatalf("failed to decode results %q: %v", string(env.Results), err)
		}
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("expected status %d, got %d: %s", code, w.Code, w.Body.String())
	}
}
