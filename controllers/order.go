// controllers/order.go
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

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
	Discount  float64   `json:"discount" binding:"min=0,max=100"`
}

type CreateOrderInput struct {
	ClientID  uuid.UUID        `json:"clientId" binding:"required"`
	OrderDate *time.Time       `json:"orderDate"`
	Items     []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Status    string           `json:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Notes     string           `json:"notes"`
}

type UpdateOrderInput struct {
	ClientID  *uuid.UUID        `json:"clientId"`
	OrderDate *time.Time        `json:"orderDate"`
	Items     *[]OrderItemInput `json:"items" binding:"omitempty,min=1,dive"`
	Status    *string           `json:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Notes     *string           `json:"notes"`
}

func buildOrderItems(c *gin.Context, tx *gorm.DB, items []OrderItemInput) ([]models.OrderItem, float64, float64, bool) {
	var subtotal, total float64
	out := make([]models.OrderItem, 0, len(items))

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

		out = append(out, models.OrderItem{
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

func (oc *OrderController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	var client models.Client
	if err := oc.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithDBError(c, err)
		}
		return
	}

	tx := oc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	items, subtotal, total, ok := buildOrderItems(c, tx, input.Items)
	if !ok {
		tx.Rollback()
		return
	}

	orderDate := time.Now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}
	status := models.OrderStatusPending
	if input.Status != "" {
		status = input.Status
	}

	order := models.Order{
		CreatedByUserID: userID,
		OrderNumber:     "ORD-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		ClientID:        input.ClientID,
		OrderDate:       orderDate,
		Status:          status,
		Subtotal:        subtotal,
		Total:           total,
		Notes:           input.Notes,
		Items:           items,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, order)
}

func (oc *OrderController) List(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("Client").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, orders)
}

func (oc *OrderController) ListByStatus(c *gin.Context) {
	status := c.Param("status")
	if !models.IsValidOrderStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status: "+status)
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("Client").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, orders)
}

func (oc *OrderController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Client").First(&order, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, order)
}

func (oc *OrderController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	tx := oc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
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
		order.ClientID = *input.ClientID
	}

	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}

	if input.Items != nil {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}

		items, subtotal, total, ok := buildOrderItems(c, tx, *input.Items)
		if !ok {
			tx.Rollback()
			return
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		order.Items = items
		order.Subtotal = subtotal
		order.Total = total
	}

	if input.Status != nil {
		order.Status = *input.Status
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}

	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, order)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}
	if !models.IsValidOrderStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status: "+input.Status)
		return
	}

	result := oc.DB.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": input.Status, "updated_at": time.Now()})
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, order)
}

// Logs lists the daily-log entries referencing this order.
func (oc *OrderController) Logs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	var entries []models.OrderLogEntry
	if err := oc.DB.Where("order_id = ?", id).Order("added_at DESC").Find(&entries).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	utils.RespondWithList(c, entries)
}

func (oc *OrderController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tx := oc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, "Order deleted successfully")
}
