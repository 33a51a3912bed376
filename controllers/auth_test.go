package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func authRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	ac := NewAuthController(db)
	r.POST("/auth/register", ac.Register)
	r.POST("/auth/login", ac.Login)
	me := r.Group("/auth")
	me.Use(utils.AuthMiddleware())
	me.GET("/me", ac.Me)
	return r
}

func TestRegisterLoginAndMe(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t)
	r := authRouter(db)

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "Owner",
	})
	wantStatus(t, w, http.StatusCreated)

	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, w, &registered)
	if registered.Token == "" {
		t.Fatalf("expected a token on registration")
	}
	if registered.User.Email != "owner@example.com" {
		t.Fatalf("unexpected user: %+v", registered.User)
	}

	// Registering the same email again conflicts.
	w = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":    "owner@example.com",
		"password": "password123",
		"name":     "Owner",
	})
	wantStatus(t, w, http.StatusConflict)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "owner@example.com",
		"password": "wrong-password",
	})
	wantStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "owner@example.com",
		"password": "password123",
	})
	wantStatus(t, w, http.StatusOK)

	var loggedIn struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, w, &loggedIn)
	if loggedIn.User.LastLogin == nil {
		t.Fatalf("expected lastLogin to be stamped")
	}

	// The issued token round-trips through the real middleware.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	wantStatus(t, rec, http.StatusOK)

	var me models.User
	decodeData(t, rec, &me)
	if me.ID != loggedIn.User.ID {
		t.Fatalf("expected /me to return the logged-in user")
	}
}

func TestMeRejectsMissingAndBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t)
	r := authRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	wantStatus(t, rec, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	wantStatus(t, rec, http.StatusUnauthorized)
}

func TestRegisterValidatesInput(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	// Password below the minimum length.
	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":    "short@example.com",
		"password": "short",
		"name":     "Short",
	})
	wantStatus(t, w, http.StatusBadRequest)

	var env struct {
		Status string `json:"status"`
		Errors []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode validation response: %v", err)
	}
	if env.Status != "fail" {
		t.Fatalf("expected fail envelope, got %s", w.Body.String())
	}
	if len(env.Errors) != 1 || env.Errors[0].Path != "password" || env.Errors[0].Code != "min" {
		t.Fatalf("unexpected field errors: %+v", env.Errors)
	}
}
