// Package entity contains the core business objects of the shop,
// each representing a unique, identifiable concept within the domain.
// The orm tags map them onto the shop tables.
package entity

import "time"

// now is replaced in tests.
var now = time.Now

// BaseEntity carries the audit timestamps shared by several entities.
// Embed it anonymously; the orm calls the hooks before writing a row.
type BaseEntity struct {
	CreatedAt time.Time // Timestamp of when the row was inserted.
	UpdatedAt time.Time // Timestamp of the last flushed modification.
}

// BeforeInsert stamps both timestamps.
func (b *BaseEntity) BeforeInsert() {
	t := now().UTC()
	b.CreatedAt = t
	b.UpdatedAt = t
}

// BeforeUpdate stamps the modification time.
func (b *BaseEntity) BeforeUpdate() {
	b.UpdatedAt = now().UTC()
}
