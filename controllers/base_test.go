package controllers

import (
	"net/http"
	"testing"

	"crmpro-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func lookupRouter(db *gorm.DB, user models.User) *gin.Engine {
	r := gin.New()
	r.Use(authAs(user.ID))
	dc := NewDomainController(db)
	cc := NewCategoryController(db)
	clc := NewClientController(db)
	r.DELETE("/professional-domains/:id", dc.Delete)
	r.DELETE("/categories/:id", cc.Delete)
	r.GET("/categories/:id", cc.Get)
	r.PUT("/categories/:id", cc.Update)
	r.DELETE("/clients/:id", clc.Delete)
	return r
}

func TestDeleteReferencedDomainFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	domain := seedDomain(t, db, "Plumbing")

	client := seedClient(t, db, user)
	if err := db.Model(&client).Update("professional_domain_id", domain.ID).Error; err != nil {
		t.Fatalf("failed to link client to domain: %v", err)
	}

	r := lookupRouter(db, user)
	w := doJSON(t, r, http.MethodDelete, "/professional-domains/"+domain.ID.String(), nil)
	wantStatus(t, w, http.StatusBadRequest)

	var count int64
	db.Model(&models.ProfessionalDomain{}).Where("id = ?", domain.ID).Count(&count)
	if count != 1 {
		t.Fatalf("referenced domain was deleted")
	}
}

func TestDeleteReferencedCategoryFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Hair")

	product := seedProduct(t, db, "Shampoo", 100)
	if err := db.Model(&product).Update("category_id", category.ID).Error; err != nil {
		t.Fatalf("failed to link product to category: %v", err)
	}

	r := lookupRouter(db, user)
	w := doJSON(t, r, http.MethodDelete, "/categories/"+category.ID.String(), nil)
	wantStatus(t, w, http.StatusBadRequest)

	var count int64
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	if count != 1 {
		t.Fatalf("referenced category was deleted")
	}
}

func TestDeleteReferencedClientFails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	client := seedClient(t, db, user)
	seedOrder(t, db, user, client)

	r := lookupRouter(db, user)
	w := doJSON(t, r, http.MethodDelete, "/clients/"+client.ID.String(), nil)
	wantStatus(t, w, http.StatusBadRequest)

	var count int64
	db.Model(&models.Client{}).Where("id = ?", client.ID).Count(&count)
	if count != 1 {
		t.Fatalf("referenced client was deleted")
	}
}

func TestDeleteUnreferencedRow(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Hair")
	r := lookupRouter(db, user)

	w := doJSON(t, r, http.MethodDelete, "/categories/"+category.ID.String(), nil)
	wantStatus(t, w, http.StatusOK)

	// Deleting again is a 404, not a silent success.
	w = doJSON(t, r, http.MethodDelete, "/categories/"+category.ID.String(), nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Hair")
	r := lookupRouter(db, user)

	w := doJSON(t, r, http.MethodPut, "/categories/"+category.ID.String(), gin.H{})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestInvalidIDRejected(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	r := lookupRouter(db, user)

	w := doJSON(t, r, http.MethodGet, "/categories/not-a-uuid", nil)
	wantStatus(t, w, http.StatusBadRequest)
}
