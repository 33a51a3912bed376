package controllers

import (
	"net/http"

	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BulkUploader imports brand/category/domain names from a spreadsheet-like
// file. The whole import is atomic: any insert error rolls back every row.
type BulkUploader[M any] struct {
	DB    *gorm.DB
	build func(utils.ImportRecord) M
}

func NewBulkUploader[M any](db *gorm.DB, build func(utils.ImportRecord) M) *BulkUploader[M] {
	return &BulkUploader[M]{DB: db, build: build}
}

// Upload accepts one multipart file (field "file"; .csv, .xls, .xlsx or
// .txt; 5MB cap), normalizes it into records and inserts each one unless a
// row with the same name already exists. Duplicates are skipped silently so
// re-uploading an identical file inserts zero rows.
func (bu *BulkUploader[M]) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "A file is required (multipart field 'file')")
		return
	}

	if !utils.SupportedUploadExt(fileHeader.Filename) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unsupported file type: only .csv, .xls, .xlsx and .txt are accepted")
		return
	}
	if fileHeader.Size > utils.MaxUploadSize {
		utils.RespondWithError(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	records, err := utils.ParseImportFile(fileHeader.Filename, f)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to parse file: "+err.Error())
		return
	}

	tx := bu.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	inserted := make([]M, 0, len(records))
	skipped := 0
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		// within-file dedupe, then exact case-sensitive match against the table
		if seen[rec.Name] {
			skipped++
			continue
		}
		seen[rec.Name] = true

		var count int64
		if err := tx.Model(new(M)).Where("name = ?", rec.Name).Count(&count).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}
		if count > 0 {
			skipped++
			continue
		}

		row := bu.build(rec)
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			utils.RespondWithDBError(c, err)
			return
		}
		inserted = append(inserted, row)
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithDBError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"inserted":      inserted,
		"insertedCount": len(inserted),
		"skippedCount":  skipped,
		"totalRecords":  len(records),
	})
}
