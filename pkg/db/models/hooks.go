package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate assigns client-side UUIDs so inserts behave the same on
// Postgres and the sqlite test databases.
func (u *User) BeforeCreate(*gorm.DB) error { u.ID = ensureID(u.ID); return nil }

func (c *Category) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }

func (c *Country) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }

func (c *City) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }

func (d *District) BeforeCreate(*gorm.DB) error { d.ID = ensureID(d.ID); return nil }

func (l *Listing) BeforeCreate(*gorm.DB) error { l.ID = ensureID(l.ID); return nil }

func (m *Media) BeforeCreate(*gorm.DB) error { m.ID = ensureID(m.ID); return nil }

func (a *MediaAttachment) BeforeCreate(*gorm.DB) error { a.ID = ensureID(a.ID); return nil }

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
