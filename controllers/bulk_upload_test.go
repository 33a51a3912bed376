package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"crmpro-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bulkRouter(db *gorm.DB, user models.User) *gin.Engine {
	r := gin.New()
	r.Use(authAs(user.ID))
	r.POST("/brands/bulk-upload", NewBrandController(db).Uploader.Upload)
	r.POST("/categories/bulk-upload", NewCategoryController(db).Uploader.Upload)
	r.POST("/professional-domains/bulk-upload", NewDomainController(db).Uploader.Upload)
	return r
}

func uploadFile(t *testing.T, r http.Handler, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type uploadResult struct {
	InsertedCount int `json:"insertedCount"`
	SkippedCount  int `json:"skippedCount"`
	TotalRecords  int `json:"totalRecords"`
}

func TestBulkUploadBrandsCSV(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := bulkRouter(db, user)

	csv := "name,description\nAcme,First\nAcme,Again\nGlobex,Second\n"

	w := uploadFile(t, r, "/brands/bulk-upload", "brands.csv", csv)
	wantStatus(t, w, http.StatusOK)
	var result uploadResult
	decodeData(t, w, &result)
	if result.InsertedCount != 2 {
		t.Fatalf("expected 2 inserted, got %d", result.InsertedCount)
	}
	if result.SkippedCount != 1 {
		t.Fatalf("expected 1 skipped (in-file duplicate), got %d", result.SkippedCount)
	}
	if result.TotalRecords != 3 {
		t.Fatalf("expected 3 total records, got %d", result.TotalRecords)
	}

	var count int64
	db.Model(&models.Brand{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 brands in table, got %d", count)
	}

	// Re-uploading the same file inserts nothing.
	w = uploadFile(t, r, "/brands/bulk-upload", "brands.csv", csv)
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &result)
	if result.InsertedCount != 0 {
		t.Fatalf("expected 0 inserted on re-upload, got %d", result.InsertedCount)
	}
	if result.SkippedCount != 3 {
		t.Fatalf("expected 3 skipped on re-upload, got %d", result.SkippedCount)
	}

	db.Model(&models.Brand{}).Count(&count)
	if count != 2 {
		t.Fatalf("re-upload changed table size: got %d", count)
	}
}

func TestBulkUploadRejectsUnsupportedExtension(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := bulkRouter(db, user)

	w := uploadFile(t, r, "/categories/bulk-upload", "categories.pdf", "name\nHair\n")
	wantStatus(t, w, http.StatusBadRequest)

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected upload inserted rows: got %d", count)
	}
}

func TestBulkUploadRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := bulkRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/categories/bulk-upload", nil)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestBulkUploadDomainsTxt(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := bulkRouter(db, user)

	w := uploadFile(t, r, "/professional-domains/bulk-upload", "domains.txt", "name\nPlumbing\n\nCarpentry\n")
	wantStatus(t, w, http.StatusOK)
	var result uploadResult
	decodeData(t, w, &result)
	if result.InsertedCount != 2 {
		t.Fatalf("expected 2 inserted, got %d", result.InsertedCount)
	}

	var domains []models.ProfessionalDomain
	if err := db.Order("name").Find(&domains).Error; err != nil {
		t.Fatalf("failed to load domains: %v", err)
	}
	if len(domains) != 2 || domains[0].Name != "Carpentry" || domains[1].Name != "Plumbing" {
		t.Fatalf("unexpected domains: %+v", domains)
	}
}

func TestBulkUploadHeaderlessCSV(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := bulkRouter(db, user)

	// No recognized header: columns are taken positionally.
	w := uploadFile(t, r, "/professional-domains/bulk-upload", "domains.csv",
		"Masonry,Stone work,PC9\nRoofing,,\n")
	wantStatus(t, w, http.StatusOK)
	var result uploadResult
	decodeData(t, w, &result)
	if result.InsertedCount != 2 {
		t.Fatalf("expected 2 inserted, got %d", result.InsertedCount)
	}

	var domain models.ProfessionalDomain
	if err := db.First(&domain, "name = ?", "Masonry").Error; err != nil {
		t.Fatalf("failed to load domain: %v", err)
	}
	if domain.Description != "Stone work" || domain.PaymentCode != "PC9" {
		t.Fatalf("positional columns not mapped: %+v", domain)
	}
}

func TestBulkUploadSkipsExistingNames(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	seedCategory(t, db, "Hair")
	r := bulkRouter(db, user)

	w := uploadFile(t, r, "/categories/bulk-upload", "categories.csv", "name\nHair\nNails\n")
	wantStatus(t, w, http.StatusOK)
	var result uploadResult
	decodeData(t, w, &result)
	if result.InsertedCount != 1 {
		t.Fatalf("expected 1 inserted, got %d", result.InsertedCount)
	}
	if result.SkippedCount != 1 {
		t.Fatalf("expected 1 skipped, got %d", result.SkippedCount)
	}
}
