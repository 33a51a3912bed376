package controllers

import (
	"net/http"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProviderController struct {
	*BaseController[models.Provider]
}

func NewProviderController(db *gorm.DB) *ProviderController {
	return &ProviderController{NewBaseController[models.Provider](db)}
}

type CreateProviderInput struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type UpdateProviderInput struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"isActive"`
}

func (pc *ProviderController) Create(c *gin.Context) {
	var input CreateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	provider := models.Provider{
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Notes:       input.Notes,
		IsActive:    true,
	}
	if !pc.insert(c, &provider) {
		return
	}
	utils.RespondWithData(c, http.StatusCreated, provider)
}

func (pc *ProviderController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.ContactName != nil {
		updates["contact_name"] = *input.ContactName
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
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
