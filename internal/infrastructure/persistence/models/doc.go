// Package models holds the GORM rows behind the domain types. Users and
// products embed AggregateModel; invoices and notification records use
// serial ids. All lists the rows in the order AutoMigrate creates them.
package models
