// controllers/order_log.go
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

// OrderLogController mirrors the client daily-log lifecycle for orders and
// adds the date-range and batch-entry operations.
type OrderLogController struct {
	DB *gorm.DB
}

func NewOrderLogController(db *gorm.DB) *OrderLogController {
	return &OrderLogController{DB: db}
}

type CreateOrderLogInput struct {
	Date    string    `json:"date" binding:"required"`
	OrderID uuid.UUID `json:"orderId" binding:"required"`
	Notes   string    `json:"notes"`
}

type AddOrderEntryInput struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
	Notes   string    `json:"notes"`
}

type BatchOrderEntryInput struct {
	LogID   uuid.UUID            `json:"logId" binding:"required"`
	Entries []AddOrderEntryInput `json:"entries" binding:"required,min=1,dive"`
}

func (lc *OrderLogController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateOrderLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var order models.Order
	if err := lc.DB.First(&order, "id = ?", input.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order not found")
		} else {
			utils.RespondWithDBError(c, err)
		}
		return
	}

	tx := lc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	log := models.OrderDailyLog{
		Date:            date,
		CreatedByUserID: userID,
	}
	if err := tx.Create(&log).Error; err != nil {
		tx.Rollback()
		if utils.IsUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "An order log already exists for this date")
			return
		}
		utils.RespondWithDBError(c, err)
		return
	}

	entry := models.OrderLogEntry{
		LogID:   log.ID,
		OrderID: input.OrderID,
		Notes:   input.Notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	log.Entries = []models.OrderLogEntry{entry}
	log.TotalOrders = 1
	utils.RespondWithData(c, http.StatusCreated, log)
}

func (lc *OrderLogController) AddEntry(c *gin.Context) {
	logID, ok := parseID(c)
	if !ok {
		return
	}

	var input AddOrderEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	tx := lc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var log models.OrderDailyLog
	if err := tx.First(&log, "id = ?", logID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}
	if log.IsClosed {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Log is closed and cannot accept entries")
		return
	}

	var order models.Order
	if err := tx.First(&order, "id = ?", input.OrderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order not found")
		} else {
			utils.RespondWithDBError(c, err)
		}
		return
	}

	entry := models.OrderLogEntry{
		LogID:   logID,
		OrderID: input.OrderID,
		Notes:   input.Notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		if utils.IsUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order is already in this log")
			return
		}
		utils.RespondWithDBError(c, err)
		return
	}

	guard := tx.Model(&models.OrderDailyLog{}).
		Where("id = ? AND is_closed = ?", logID, false).
		Update("updated_at", time.Now())
	if guard.Error != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, guard.Error)
		return
	}
	if guard.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Log is closed and cannot accept entries")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	entry.Order = &order
	utils.RespondWithData(c, http.StatusCreated, entry)
}

// AddEntriesBatch inserts several entries into one open log in a single
// transaction. Duplicates, whether inside the batch or against existing
// entries, are skipped silently.
func (lc *OrderLogController) AddEntriesBatch(c *gin.Context) {
	var input BatchOrderEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	tx := lc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var log models.OrderDailyLog
	if err := tx.First(&log, "id = ?", input.LogID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, err)
		return
	}
	if log.IsClosed {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Log is closed and cannot accept entries")
		return
	}

	created := make([]models.OrderLogEntry, 0, len(input.Entries))
	skipped := 0
	seen := make(map[uuid.UUID]bool, len(input.Entries))

	for _, in := range input.Entries {
		if seen[in.OrderID] {
			skipped++
			continue
		}
		seen[in.OrderID] = true

		var count int64
		if err := tx.Model(&models.OrderLogEntry{}).
			Where("log_id = ? AND order_id = ?", input.LogID, in.OrderID).
			Count(&count).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}
		if count > 0 {
			skipped++
			continue
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", in.OrderID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Order not found: "+in.OrderID.String())
			} else {
				utils.RespondWithDBError(c, err)
			}
			return
		}

		entry := models.OrderLogEntry{
			LogID:   input.LogID,
			OrderID: in.OrderID,
			Notes:   in.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}
		created = append(created, entry)
	}

	guard := tx.Model(&models.OrderDailyLog{}).
		Where("id = ? AND is_closed = ?", input.LogID, false).
		Update("updated_at", time.Now())
	if guard.Error != nil {
		tx.Rollback()
		utils.RespondWithDBError(c, guard.Error)
		return
	}
	if guard.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Log is closed and cannot accept entries")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, gin.H{
		"entries":       created,
		"insertedCount": len(created),
		"skippedCount":  skipped,
	})
}

func (lc *OrderLogController) Close(c *gin.Context) {
	logID, ok := parseID(c)
	if !ok {
		return
	}

	now := time.Now()
	result := lc.DB.Model(&models.OrderDailyLog{}).
		Where("id = ? AND is_closed = ?", logID, false).
		Updates(map[string]interface{}{"is_closed": true, "closed_at": now, "updated_at": now})
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		var log models.OrderDailyLog
		if err := lc.DB.First(&log, "id = ?", logID).Error; err != nil {
			utils.RespondWithDBError(c, err)
			return
		}
		utils.RespondWithError(c, http.StatusConflict, "Log is already closed")
		return
	}

	lc.respondWithLog(c, logID, http.StatusOK)
}

func (lc *OrderLogController) List(c *gin.Context) {
	var logs []models.OrderDailyLog
	if err := lc.DB.Order("date DESC").Find(&logs).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	if ok := lc.fillCounts(c, logs); !ok {
		return
	}
	utils.RespondWithList(c, logs)
}

func (lc *OrderLogController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lc.respondWithLog(c, id, http.StatusOK)
}

// DateRange returns logs between start_date and end_date inclusive.
func (lc *OrderLogController) DateRange(c *gin.Context) {
	start, err := utils.ParseDate(c.Query("start_date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := utils.ParseDate(c.Query("end_date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	var logs []models.OrderDailyLog
	if err := lc.DB.Where("date BETWEEN ? AND ?", start, end).Order("date DESC").Find(&logs).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	if ok := lc.fillCounts(c, logs); !ok {
		return
	}
	utils.RespondWithList(c, logs)
}

func (lc *OrderLogController) respondWithLog(c *gin.Context, id uuid.UUID, code int) {
	var log models.OrderDailyLog
	if err := lc.DB.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Preload("Entries.Order").First(&log, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	log.TotalOrders = len(log.Entries)
	utils.RespondWithData(c, code, log)
}

func (lc *OrderLogController) fillCounts(c *gin.Context, logs []models.OrderDailyLog) bool {
	if len(logs) == 0 {
		return true
	}
	type entryCount struct {
		LogID uuid.UUID
		Total int
	}
	var counts []entryCount
	if err := lc.DB.Model(&models.OrderLogEntry{}).
		Select("log_id, COUNT(*) AS total").
		Group("log_id").
		Scan(&counts).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return false
	}
	byLog := make(map[uuid.UUID]int, len(counts))
	for _, ec := range counts {
		byLog[ec.LogID] = ec.Total
	}
	for i := range logs {
		logs[i].TotalOrders = byLog[logs[i].ID]
	}
	return true
}
