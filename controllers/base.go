package controllers

import (
	"net/http"
	"time"

	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseController provides the generic list/get/delete/update plumbing shared
// by every table. It has no schema awareness beyond the model type; write
// correctness is delegated to the database's own constraints (foreign keys,
// NOT NULL, UNIQUE). Entity controllers layer typed inputs, joins and field
// whitelists on top.
type BaseController[M any] struct {
	DB *gorm.DB
}

func NewBaseController[M any](db *gorm.DB) *BaseController[M] {
	return &BaseController[M]{DB: db}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	s, ok := v.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in context")
		return uuid.Nil, false
	}
	return id, true
}

// List returns all rows ordered by creation descending.
func (bc *BaseController[M]) List(c *gin.Context) {
	var rows []M
	if err := bc.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, rows)
}

// Get returns one row or a 404.
func (bc *BaseController[M]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var row M
	if err := bc.DB.First(&row, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, row)
}

// Delete removes a row. Rows referenced elsewhere fail with an integrity
// error from the database rather than cascading.
func (bc *BaseController[M]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result := bc.DB.Delete(new(M), "id = ?", id)
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Deleted successfully")
}

// insert persists a fully-built row, responding on error.
func (bc *BaseController[M]) insert(c *gin.Context, row *M) bool {
	if err := bc.DB.Create(row).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return false
	}
	return true
}

// applyUpdates performs a partial update from a whitelisted field map. Empty
// maps are rejected with a validation error; updated_at is stamped on every
// accepted update. Returns the refreshed row.
func (bc *BaseController[M]) applyUpdates(c *gin.Context, id uuid.UUID, updates map[string]interface{}) (*M, bool) {
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Update requires at least one field")
		return nil, false
	}
	updates["updated_at"] = time.Now()
	result := bc.DB.Model(new(M)).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return nil, false
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
		return nil, false
	}
	var row M
	if err := bc.DB.First(&row, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return nil, false
	}
	return &row, true
}
