// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db}
}

// InvoiceItemInput defines the structure for an invoice line item. Prices
// come from the product at creation time, never from the caller.
type InvoiceItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
	Discount  float64   `json:"discount" binding:"min=0,max=100"`
}

type CreateInvoiceInput struct {
	ClientID  uuid.UUID           `json:"clientId" binding:"required"`
	IssueDate *time.Time          `json:"issueDate"`
	DueDate   *time.Time          `json:"dueDate"`
	Items     []InvoiceItemInput  `json:"items" binding:"required,min=1,dive"`
	Status    string              `json:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	Notes     string              `json:"notes"`
}

type UpdateInvoiceInput struct {
	ClientID  *uuid.UUID          `json:"clientId"`
	IssueDate *time.Time          `json:"issueDate"`
	DueDate   *time.Time          `json:"dueDate"`
	Items     *[]InvoiceItemInput `json:"items" binding:"omitempty,min=1,dive"`
	Status    *string             `json:"status" binding:"omitempty,oneof=draft sent paid overdue"`
	Notes     *string             `json:"notes"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// buildInvoiceItems validates each referenced product and snapshots its
// current name and price into line items, returning the subtotal (before
// discounts) and the discounted total.
func buildInvoiceItems(c *gin.Context, tx *gorm.DB, items []InvoiceItemInput) ([]models.InvoiceItem, float64, float64, bool) {
	var subtotal, total float64
	out := make([]models.InvoiceItem, 0, len(items))

	for _, item := range items {
		var product models.Product
		if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Product not found: "+item.ProductID.String())
			} else {
				utils.RespondWithDBError(c, err)
			}
			return nil, 0, 0, false
		}

		lineTotal := models.LineTotal(item.Quantity, product.Price, item.Discount)
		subtotal += float64(item.Quantity) * product.Price
		total += lineTotal

		out = append(out, models.InvoiceItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Discount:    item.Discount,
			TotalPrice:  lineTotal,
		})
	}
	return out, subtotal, total, true
}

func (ic *InvoiceController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	var client models.Client
	if err := ic.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithDBError(c, err)
		}
		return
	}

	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	items, subtotal, total, ok := buildInvoiceItems(c, tx, input.Items)
	if !ok {
		tx.Rollback()
		return
	}

	issueDate := time.Now()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}
	status := models.InvoiceStatusDraft
	if input.Status != "" {
		status = input.Status
	}

	invoice := models.Invoice{
		CreatedByUserID: userID,
		InvoiceNumber:   "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		ClientID:        input.ClientID,
		IssueDate:       issueDate,
		DueDate:         input.DueDate,
		Status:          status,
		Subtotal:        subtotal,
		Total:           total,
		Notes:           input.Notes,
		Items:           items,
	}

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, invoice)
}

func (ic *InvoiceController) List(c *gin.Context) {
	var invoices []models.Invoice
	if err := ic.DB.Preload("Items").Preload("Client").Order("created_at DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, invoices)
}

// ListByStatus filters invoices on a valid status value.
func (ic *InvoiceController) ListByStatus(c *gin.Context) {
	status := c.Param("status")
	if !models.IsValidInvoiceStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice status: "+status)
		return
	}

	var invoices []models.Invoice
	if err := ic.DB.Preload("Items").Preload("Client").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, invoices)
}

func (ic *InvoiceController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var invoice models.Invoice
	if err := ic.DB.Preload("Items").Preload("Client").First(&invoice, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, invoice)
}

// Update replaces the item set when provided and recomputes totals
// server-side; a client-supplied total is never accepted.
func (ic *InvoiceController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if input.ClientID != nil {
		var client models.Client
		if err := tx.First(&client, "id = ?", *input.ClientID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
			} else {
				utils.RespondWithDBError(c, err)
			}
			return
		}
		invoice.ClientID = *input.ClientID
	}

	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}

	if input.Items != nil {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}

		items, subtotal, total, ok := buildInvoiceItems(c, tx, *input.Items)
		if !ok {
			tx.Rollback()
			return
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		invoice.Items = items
		invoice.Subtotal = subtotal
		invoice.Total = total
	}

	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, invoice)
}

// UpdateStatus handles PATCH /:id/status.
func (ic *InvoiceController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	if !models.IsValidInvoiceStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice status: "+input.Status)
		return
	}

	result := ic.DB.Model(&models.Invoice{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": input.Status, "updated_at": time.Now()})
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	var invoice models.Invoice
	if err := ic.DB.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, invoice)
}

func (ic *InvoiceController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var invoice models.Invoice
	if err := tx.First(&invoice, "id = ?", id).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, "Invoice deleted successfully")
}
