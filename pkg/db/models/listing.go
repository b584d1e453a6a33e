package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/enums"
)

// Listing is the canonical classified ad entity.
type Listing struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UniqueNumber string              `gorm:"column:unique_number;not null;uniqueIndex"`
	Name         string              `gorm:"column:name;not null"`
	Description  string              `gorm:"column:description;not null"`
	CategoryID   uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	Category     *Category           `gorm:"foreignKey:CategoryID"`
	CountryID    *uuid.UUID          `gorm:"column:country_id;type:uuid"`
	Country      *Country            `gorm:"foreignKey:CountryID"`
	CityID       uuid.UUID           `gorm:"column:city_id;type:uuid;not null"`
	City         *City               `gorm:"foreignKey:CityID"`
	DistrictID   *uuid.UUID          `gorm:"column:district_id;type:uuid"`
	District     *District           `gorm:"foreignKey:DistrictID"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	User         *User               `gorm:"foreignKey:UserID"`
	Status       enums.ListingStatus `gorm:"column:status;not null;default:pending"`

	ApprovedBy      *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	Approver        *User      `gorm:"foreignKey:ApprovedBy"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// MarkApproved records an approval and clears any prior rejection fields so
// the two terminal states never overlap.
func (l *Listing) MarkApproved(moderatorID uuid.UUID, at time.Time) {
	l.Status = enums.ListingStatusApproved
	l.ApprovedBy = &moderatorID
	l.ApprovedAt = &at
	l.RejectedAt = nil
	l.RejectionReason = nil
}

// MarkRejected records a rejection and clears any prior approval fields.
func (l *Listing) MarkRejected(reason string, at time.Time) {
	l.Status = enums.ListingStatusRejected
	l.RejectionReason = &reason
	l.RejectedAt = &at
	l.ApprovedBy = nil
	l.ApprovedAt = nil
}
