package controllers

import (
	"errors"
	"net/http"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductController struct {
	*BaseController[models.Product]
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{NewBaseController[models.Product](db)}
}

type CreateProductInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Price       float64    `json:"price" binding:"min=0"`
	Cost        float64    `json:"cost" binding:"min=0"`
	Stock       int        `json:"stock" binding:"min=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	BrandID     *uuid.UUID `json:"brandId"`
}

type UpdateProductInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price" binding:"omitempty,min=0"`
	Cost        *float64   `json:"cost" binding:"omitempty,min=0"`
	Stock       *int       `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	BrandID     *uuid.UUID `json:"brandId"`
	IsActive    *bool      `json:"isActive"`
}

func (pc *ProductController) checkLookups(c *gin.Context, categoryID, brandID *uuid.UUID) bool {
	if categoryID != nil {
		var category models.Category
		if err := pc.DB.First(&category, "id = ?", *categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Category not found")
			} else {
				utils.RespondWithDBError(c, err)
			}
			return false
		}
	}
	if brandID != nil {
		var brand models.Brand
		if err := pc.DB.First(&brand, "id = ?", *brandID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Brand not found")
			} else {
				utils.RespondWithDBError(c, err)
			}
			return false
		}
	}
	return true
}

func (pc *ProductController) Create(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	if !pc.checkLookups(c, input.CategoryID, input.BrandID) {
		return
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		BrandID:     input.BrandID,
		IsActive:    true,
	}
	if !pc.insert(c, &product) {
		return
	}
	utils.RespondWithData(c, http.StatusCreated, product)
}

// List resolves category and brand names for display.
func (pc *ProductController) List(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Preload("Category").Preload("Brand").Order("created_at DESC").Find(&products).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, products)
}

func (pc *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var product models.Product
	if err := pc.DB.Preload("Category").Preload("Brand").First(&product, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, product)
}

func (pc *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	if !pc.checkLookups(c, input.CategoryID, input.BrandID) {
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Cost != nil {
		updates["cost"] = *input.Cost
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.BrandID != nil {
		updates["brand_id"] = *input.BrandID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	updated, ok := pc.applyUpdates(c, id, updates)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, updated)
}
