package models

// All returns every model in migration order (referenced tables first).
func All() []interface{} {
	return []interface{}{
		&User{},
		&ProfessionalDomain{},
		&Client{},
		&Provider{},
		&Category{},
		&Brand{},
		&Product{},
		&Invoice{},
		&InvoiceItem{},
		&Order{},
		&OrderItem{},
		&ClientDailyLog{},
		&ClientLogEntry{},
		&OrderDailyLog{},
		&OrderLogEntry{},
		&NotificationLog{},
	}
}
