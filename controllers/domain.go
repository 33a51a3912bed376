package controllers

import (
	"net/http"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DomainController struct {
	*BaseController[models.ProfessionalDomain]
	Uploader *BulkUploader[models.ProfessionalDomain]
}

func NewDomainController(db *gorm.DB) *DomainController {
	return &DomainController{
		BaseController: NewBaseController[models.ProfessionalDomain](db),
		Uploader: NewBulkUploader(db, func(rec utils.ImportRecord) models.ProfessionalDomain {
			return models.ProfessionalDomain{
				Name:        rec.Name,
				Description: rec.Description,
				PaymentCode: rec.PaymentCode,
			}
		}),
	}
}

type CreateDomainInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PaymentCode string `json:"paymentCode"`
}

type UpdateDomainInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PaymentCode *string `json:"paymentCode"`
}

func (dc *DomainController) Create(c *gin.Context) {
	var input CreateDomainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	domain := models.ProfessionalDomain{
		Name:        input.Name,
		Description: input.Description,
		PaymentCode: input.PaymentCode,
	}
	if !dc.insert(c, &domain) {
		return
	}
	utils.RespondWithData(c, http.StatusCreated, domain)
}

func (dc *DomainController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateDomainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PaymentCode != nil {
		updates["payment_code"] = *input.PaymentCode
	}

	updated, ok := dc.applyUpdates(c, id, updates)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, updated)
}
