package models

// All returns every model managed by the schema, in creation order
func All() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&InvoiceModel{},
		&NotificationEventModel{},
	}
}
