package controllers

import (
	"net/http"
	"testing"

	"crmpro-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func clientRouter(db *gorm.DB, user models.User) *gin.Engine {
	r := gin.New()
	r.Use(authAs(user.ID))
	cc := NewClientController(db)
	r.POST("/clients", cc.Create)
	r.GET("/clients", cc.List)
	r.GET("/clients/:id", cc.Get)
	r.PUT("/clients/:id", cc.Update)
	r.GET("/clients/:id/logs", cc.Logs)
	return r
}

func TestClientCreateDerivesName(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := clientRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/clients", gin.H{
		"firstName": "  Marie ",
		"lastName":  "Curie",
		"email":     "marie@example.com",
		"phone":     "+33 612 345 678",
	})
	wantStatus(t, w, http.StatusCreated)

	var client models.Client
	decodeData(t, w, &client)
	if client.Name != "Marie Curie" {
		t.Fatalf("expected derived name %q, got %q", "Marie Curie", client.Name)
	}
	if client.CreatedByUserID != user.ID {
		t.Fatalf("expected creator to be recorded")
	}
}

func TestClientCreateRejectsBadPhone(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := clientRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/clients", gin.H{
		"firstName": "Bad",
		"phone":     "not-a-phone",
	})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestClientCreateRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := clientRouter(db, user)

	body := gin.H{"firstName": "Jane", "email": "jane@example.com"}
	w := doJSON(t, r, http.MethodPost, "/clients", body)
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, http.MethodPost, "/clients", body)
	wantStatus(t, w, http.StatusConflict)
}

func TestClientCreateRejectsUnknownDomain(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := clientRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/clients", gin.H{
		"firstName":            "Jane",
		"professionalDomainId": "018f2a7e-0000-7000-8000-000000000000",
	})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestClientUpdateRecomputesName(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	client := seedClient(t, db, user)
	r := clientRouter(db, user)

	w := doJSON(t, r, http.MethodPut, "/clients/"+client.ID.String(), gin.H{
		"lastName": "Smith",
	})
	wantStatus(t, w, http.StatusOK)

	var updated models.Client
	decodeData(t, w, &updated)
	if updated.Name != "Jane Smith" {
		t.Fatalf("expected name recomputed to %q, got %q", "Jane Smith", updated.Name)
	}
}

func TestClientGetResolvesDomain(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	domain := seedDomain(t, db, "Plumbing")
	r := clientRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/clients", gin.H{
		"firstName":            "Jane",
		"professionalDomainId": domain.ID,
	})
	wantStatus(t, w, http.StatusCreated)
	var created models.Client
	decodeData(t, w, &created)

	w = doJSON(t, r, http.MethodGet, "/clients/"+created.ID.String(), nil)
	wantStatus(t, w, http.StatusOK)
	var fetched models.Client
	decodeData(t, w, &fetched)
	if fetched.ProfessionalDomain == nil || fetched.ProfessionalDomain.Name != "Plumbing" {
		t.Fatalf("expected professional domain resolved, got %+v", fetched.ProfessionalDomain)
	}
}

func TestClientLogsListsEntries(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	client := seedClient(t, db, user)
	r := clientRouter(db, user)

	log := models.ClientDailyLog{Date: mustDate(t, "2026-05-01"), CreatedByUserID: user.ID}
	if err := db.Create(&log).Error; err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}
	entry := models.ClientLogEntry{LogID: log.ID, ClientID: client.ID}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/clients/"+client.ID.String()+"/logs", nil)
	wantStatus(t, w, http.StatusOK)
	var entries []models.ClientLogEntry
	decodeResults(t, w, &entries)
	if len(entries) != 1 || entries[0].LogID != log.ID {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	w = doJSON(t, r, http.MethodGet, "/clients/018f2a7e-0000-7000-8000-000000000000/logs", nil)
	wantStatus(t, w, http.StatusNotFound)
}
