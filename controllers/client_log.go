// controllers/client_log.go
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

// ClientLogController implements the daily-log lifecycle for clients:
// OPEN -> OPEN (with entries) -> CLOSED, where CLOSED is terminal. The
// closed check and every mutation run in the same transaction or statement,
// so an entry cannot land after closedAt is stamped.
type ClientLogController struct {
	DB *gorm.DB
}

func NewClientLogController(db *gorm.DB) *ClientLogController {
	return &ClientLogController{DB: db}
}

type CreateClientLogInput struct {
	Date     string    `json:"date" binding:"required"`
	ClientID uuid.UUID `json:"clientId" binding:"required"`
	Notes    string    `json:"notes"`
}

type AddClientEntryInput struct {
	ClientID uuid.UUID `json:"clientId" binding:"required"`
	Notes    string    `json:"notes"`
}

// Create opens a log for the date and attaches the first entry atomically
// with log creation.
func (lc *ClientLogController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateClientLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, err)
		return
	}

	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var client models.Client
	if err := lc.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
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

	log := models.ClientDailyLog{
		Date:            date,
		CreatedByUserID: userID,
	}
	if err := tx.Create(&log).Error; err != nil {
		tx.Rollback()
		if utils.IsUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusConflict, "A client log already exists for this date")
			return
		}
		utils.RespondWithDBError(c, err)
		return
	}

	entry := models.ClientLogEntry{
		LogID:    log.ID,
		ClientID: input.ClientID,
		Notes:    input.Notes,
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

	log.Entries = []models.ClientLogEntry{entry}
	log.TotalClients = 1
	utils.RespondWithData(c, http.StatusCreated, log)
}

// AddEntry appends one client to an open log. The insert and the open-check
// share a transaction: after inserting, a conditional touch of the log row
// (WHERE is_closed = false) must hit exactly one row or everything rolls
// back, which also covers a close racing in between.
func (lc *ClientLogController) AddEntry(c *gin.Context) {
	logID, ok := parseID(c)
	if !ok {
		return
	}

	var input AddClientEntryInput
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

	var log models.ClientDailyLog
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

	var client models.Client
	if err := tx.First(&client, "id = ?", input.ClientID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client not found")
		} else {
			utils.RespondWithDBError(c, err)
		}
		return
	}

	entry := models.ClientLogEntry{
		LogID:    logID,
		ClientID: input.ClientID,
		Notes:    input.Notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		if utils.IsUniqueViolation(err) {
			utils.RespondWithError(c, http.StatusBadRequest, "Client is already in this log")
			return
		}
		utils.RespondWithDBError(c, err)
		return
	}

	guard := tx.Model(&models.ClientDailyLog{}).
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

	entry.Client = &client
	utils.RespondWithData(c, http.StatusCreated, entry)
}

// Close freezes the log with a single conditional update so the closed
// check and the mutation are atomic. Closing twice fails.
func (lc *ClientLogController) Close(c *gin.Context) {
	logID, ok := parseID(c)
	if !ok {
		return
	}

	now := time.Now()
	result := lc.DB.Model(&models.ClientDailyLog{}).
		Where("id = ? AND is_closed = ?", logID, false).
		Updates(map[string]interface{}{"is_closed": true, "closed_at": now, "updated_at": now})
	if result.Error != nil {
		utils.RespondWithDBError(c, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		var log models.ClientDailyLog
		if err := lc.DB.First(&log, "id = ?", logID).Error; err != nil {
			utils.RespondWithDBError(c, err)
			return
		}
		utils.RespondWithError(c, http.StatusConflict, "Log is already closed")
		return
	}

	lc.respondWithLog(c, logID, http.StatusOK)
}

func (lc *ClientLogController) List(c *gin.Context) {
	var logs []models.ClientDailyLog
	if err := lc.DB.Order("date DESC").Find(&logs).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	if ok := lc.fillCounts(c, logs); !ok {
		return
	}
	utils.RespondWithList(c, logs)
}

func (lc *ClientLogController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lc.respondWithLog(c, id, http.StatusOK)
}

// Today returns the log for the current date, if one exists.
func (lc *ClientLogController) Today(c *gin.Context) {
	today := utils.BeginningOfDay(time.Now())
	var log models.ClientDailyLog
	if err := lc.DB.Where("date = ?", today).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "No client log for today")
			return
		}
		utils.RespondWithDBError(c, err)
		return
	}
	lc.respondWithLog(c, log.ID, http.StatusOK)
}

// respondWithLog loads a log with its entries and the live client display
// data. Display fields reflect the client's current state, not a snapshot
// from entry time.
func (lc *ClientLogController) respondWithLog(c *gin.Context, id uuid.UUID, code int) {
	var log models.ClientDailyLog
	if err := lc.DB.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Preload("Entries.Client").First(&log, "id = ?", id).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}
	log.TotalClients = len(log.Entries)
	utils.RespondWithData(c, code, log)
}

func (lc *ClientLogController) fillCounts(c *gin.Context, logs []models.ClientDailyLog) bool {
	if len(logs) == 0 {
		return true
	}
	type entryCount struct {
		LogID uuid.UUID
		Total int
	}
	var counts []entryCount
	if err := lc.DB.Model(&models.ClientLogEntry{}).
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
		logs[i].TotalClients = byLog[logs[i].ID]
	}
	return true
}
