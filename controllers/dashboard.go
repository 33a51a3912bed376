package controllers

import (
	"net/http"
	"time"

	"crmpro-backend/models"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type DashboardOverview struct {
	TotalClients    int64           `json:"totalClients"`
	TotalProviders  int64           `json:"totalProviders"`
	TotalProducts   int64           `json:"totalProducts"`
	TotalInvoices   int64           `json:"totalInvoices"`
	TotalOrders     int64           `json:"totalOrders"`
	MonthlyRevenue  float64         `json:"monthlyRevenue"`
	OverdueInvoices int64           `json:"overdueInvoices"`
	PendingOrders   int64           `json:"pendingOrders"`
	RecentClients   []models.Client `json:"recentClients"`
	OpenClientLog   bool            `json:"openClientLog"`
	OpenOrderLog    bool            `json:"openOrderLog"`
}

func (dc *DashboardController) Overview(c *gin.Context) {
	var overview DashboardOverview

	dc.DB.Model(&models.Client{}).Count(&overview.TotalClients)
	dc.DB.Model(&models.Provider{}).Count(&overview.TotalProviders)
	dc.DB.Model(&models.Product{}).Count(&overview.TotalProducts)
	dc.DB.Model(&models.Invoice{}).Count(&overview.TotalInvoices)
	dc.DB.Model(&models.Order{}).Count(&overview.TotalOrders)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dc.DB.Model(&models.Invoice{}).
		Where("issue_date >= ? AND status = ?", firstOfMonth, models.InvoiceStatusPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&overview.MonthlyRevenue)

	dc.DB.Model(&models.Invoice{}).Where("status = ?", models.InvoiceStatusOverdue).Count(&overview.OverdueInvoices)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&overview.PendingOrders)

	if err := dc.DB.Order("created_at DESC").Limit(5).Find(&overview.RecentClients).Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	today := utils.BeginningOfDay(now)
	var openLogs int64
	dc.DB.Model(&models.ClientDailyLog{}).Where("date = ? AND is_closed = ?", today, false).Count(&openLogs)
	overview.OpenClientLog = openLogs > 0
	openLogs = 0
	dc.DB.Model(&models.OrderDailyLog{}).Where("date = ? AND is_closed = ?", today, false).Count(&openLogs)
	overview.OpenOrderLog = openLogs > 0

	utils.RespondWithData(c, http.StatusOK, overview)
}
