package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientController struct {
	*BaseController[models.Client]
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{NewBaseController[models.Client](db)}
}

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	FirstName            string     `json:"firstName" binding:"required"`
	LastName             string     `json:"lastName"`
	Email                *string    `json:"email" binding:"omitempty,email"`
	Phone                string     `json:"phone"`
	Address              string     `json:"address"`
	BirthDate            *time.Time `json:"birthDate"`
	Notes                string     `json:"notes"`
	ProfessionalDomainID *uuid.UUID `json:"professionalDomainId"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	FirstName            *string    `json:"firstName"`
	LastName             *string    `json:"lastName"`
	Email                *string    `json:"email" binding:"omitempty,email"`
	Phone                *string    `json:"phone"`
	Address              *string    `json:"address"`
	BirthDate            *time.Time `json:"birthDate"`
	Notes                *string    `json:"notes"`
	ProfessionalDomainID *uuid.UUID `json:"professionalDomainId"`
	IsActive             *bool      `json:"isActive"`
}

func (cc *ClientController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Duplicate email guard
	if input.Email != nil && *input.Email != "" {
		var existing models.Client
		if err := cc.DB.Where("email = ?", *input.Email).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Client with this email already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithDBError(c, err)
			return
		}
	}

	if input.ProfessionalDomainID != nil {
		var domain models.ProfessionalDomain
		if err := cc.DB.First(&domain, "id = ?", *input.ProfessionalDomainID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Professional domain not found")
			} else {
				utils.RespondWithDBError(c, err)
			}
			return
		}
	}

	client := models.Client{
		CreatedByUserID:      userID,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		Phone:                input.Phone,
		Address:              input.Address,
		BirthDate:            input.BirthDate,
		Notes:                input.Notes,
		ProfessionalDomainID: input.ProfessionalDomainID,
		IsActive:             true,
	}
	if input.Email != nil {
		client.Email = *input.Email
	}

	if !cc.insert(c, &client) {
		return
	}

	utils.RespondWithData(c, http.StatusCreated, client)
}

// List returns all clients with their professional domain resolved for
// display.
func (cc *ClientController) List(c *gin.Context) {
	var clients []models.Client
	if err := cc.DB.Preload("ProfessionalDomain").Order("created_at DESC").Find(&clients).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, clients)
}

func (cc *ClientController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var client models.Client
	if err := cc.DB.Preload("ProfessionalDomain").First(&client, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, client)
}

// Update whitelists fields into a partial update. The derived name column is
// recomputed here whenever either name part changes, since map updates
// bypass the model's BeforeSave hook.
func (cc *ClientController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	updates := map[string]interface{}{}
	firstName, lastName := client.FirstName, client.LastName
	if input.FirstName != nil {
		firstName = *input.FirstName
		updates["first_name"] = firstName
	}
	if input.LastName != nil {
		lastName = *input.LastName
		updates["last_name"] = lastName
	}
	if input.FirstName != nil || input.LastName != nil {
		updates["name"] = strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	}
	if input.Email != nil {
		if *input.Email != "" && *input.Email != client.Email {
			var existing models.Client
			if err := cc.DB.Where("email = ? AND id <> ?", *input.Email, id).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another client with this email already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithDBError(c, err)
				return
			}
		}
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
	if input.BirthDate != nil {
		updates["birth_date"] = *input.BirthDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.ProfessionalDomainID != nil {
		var domain models.ProfessionalDomain
		if err := cc.DB.First(&domain, "id = ?", *input.ProfessionalDomainID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Professional domain not found")
			} else {
				utils.RespondWithDBError(c, err)
			}
			return
		}
		updates["professional_domain_id"] = *input.ProfessionalDomainID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	updated, ok := cc.applyUpdates(c, id, updates)
	if !ok {
		return
	}
	utils.RespondWithData(c, http.StatusOK, updated)
}

// Logs lists the daily-log entries referencing this client, newest first.
func (cc *ClientController) Logs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	var entries []models.ClientLogEntry
	if err := cc.DB.Where("client_id = ?", id).Order("added_at DESC").Find(&entries).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, entries)
}
