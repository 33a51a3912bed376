// utils/bulkfile.go
package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxUploadSize caps bulk-upload files at 5MB.
const MaxUploadSize = 5 << 20

// ImportRecord is the canonical shape every upload row is normalized into.
type ImportRecord struct {
	Name        string
	Description string
	PaymentCode string
}

// headerAliases maps the column-name variants seen in customer spreadsheets
// onto canonical field names.
var headerAliases = map[string]string{
	"name":          "name",
	"nom":           "name",
	"nombre":        "name",
	"title":         "name",
	"label":         "name",
	"brand":         "name",
	"brand name":    "name",
	"brand_name":    "name",
	"category":      "name",
	"category name": "name",
	"category_name": "name",
	"domain":        "name",
	"domain name":   "name",
	"domain_name":   "name",
	"description":   "description",
	"desc":          "description",
	"details":       "description",
	"notes":         "description",
	"payment code":  "payment_code",
	"payment_code":  "payment_code",
	"paymentcode":   "payment_code",
	"code":          "payment_code",
}

// SupportedUploadExt reports whether the file extension is one of the
// accepted upload formats.
func SupportedUploadExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xls", ".xlsx", ".txt":
		return true
	}
	return false
}

// ParseImportFile sniffs the format by extension and normalizes the content
// into ImportRecords. Records without a name are dropped. A file that cannot
// be parsed fails as a whole before any record is returned.
func ParseImportFile(filename string, r io.Reader) ([]ImportRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseDelimited(r)
	case ".txt":
		return parseLines(r)
	case ".xls", ".xlsx":
		return parseSpreadsheet(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

func parseDelimited(r io.Reader) ([]ImportRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsToRecords(rows), nil
}

func parseSpreadsheet(r io.Reader) ([]ImportRecord, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	return rowsToRecords(rows), nil
}

// parseLines treats a .txt upload as one name per line; a leading line that
// looks like a header is skipped.
func parseLines(r io.Reader) ([]ImportRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []ImportRecord
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if _, isHeader := headerAliases[strings.ToLower(line)]; isHeader {
				continue
			}
		}
		records = append(records, ImportRecord{Name: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	return records, nil
}

// rowsToRecords handles both headered and headerless tabular files. With a
// recognized header row the columns are mapped through the alias table;
// otherwise columns are taken positionally as name, description, payment
// code.
func rowsToRecords(rows [][]string) []ImportRecord {
	if len(rows) == 0 {
		return nil
	}

	colMap := mapColumns(rows[0])
	start := 1
	if _, ok := colMap["name"]; !ok {
		colMap = map[string]int{"name": 0, "description": 1, "payment_code": 2}
		start = 0
	}

	records := make([]ImportRecord, 0, len(rows))
	for i := start; i < len(rows); i++ {
		rec := ImportRecord{
			Name:        readCell(rows[i], colMap["name"]),
			Description: readCellOpt(rows[i], colMap, "description"),
			PaymentCode: readCellOpt(rows[i], colMap, "payment_code"),
		}
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func mapColumns(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if canonical, ok := headerAliases[key]; ok {
			if _, seen := colMap[canonical]; !seen {
				colMap[canonical] = i
			}
		}
	}
	return colMap
}

func readCell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func readCellOpt(cells []string, colMap map[string]int, key string) string {
	idx, ok := colMap[key]
	if !ok {
		return ""
	}
	return readCell(cells, idx)
}
