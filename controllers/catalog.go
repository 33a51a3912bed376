package controllers

import (
	"net/http"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Category and Brand share the same lookup-table shape, so their
// controllers are thin wrappers over the generic base plus a bulk uploader.

type CreateLookupInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateLookupInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func lookupUpdates(input UpdateLookupInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	return updates
}

type CategoryController struct {
	*BaseController[models.Category]
	Uploader *BulkUploader[models.Category]
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{
		BaseController: NewBaseController[models.Category](db),
		Uploader: NewBulkUploader(db, func(rec utils.ImportRecord) models.Category {
			return models.Category{Name: rec.Name, Description: rec.Description}
		}),
	}
}

func (cc *CategoryController) Create(c *gin.Context) {
	var input CreateLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	category := models.Category{Name: input.Name, Description: input.Description}
	if !cc.insert(c, &category) {
		return
	}
	utils.RespondWithData(c, http.StatusCreated, category)
}

func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input UpdateLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	updated, ok := cc.applyUpdates(c, id, lookupUpdates(input))
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, updated)
}

type BrandController struct {
	*BaseController[models.Brand]
	Uploader *BulkUploader[models.Brand]
}

func NewBrandController(db *gorm.DB) *BrandController {
	return &BrandController{
		BaseController: NewBaseController[models.Brand](db),
		Uploader: NewBulkUploader(db, func(rec utils.ImportRecord) models.Brand {
			return models.Brand{Name: rec.Name, Description: rec.Description}
		}),
	}
}

func (bc *BrandController) Create(c *gin.Context) {
	var input CreateLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	brand := models.Brand{Name: input.Name, Description: input.Description}
	if !bc.insert(c, &brand) {
		return
	}
	utils.RespondWithData(c, http.StatusCreated, brand)
}

func (bc *BrandController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input UpdateLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	updated, ok := bc.applyUpdates(c, id, lookupUpdates(input))
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, updated)
}
