package models

import (
	"time"

	"gorm.io/gorm"
)

type Folder struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID    uint64         `gorm:"not null;index" json:"owner_id"`
	EmployeeID *uint64        `gorm:"index" json:"employee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanAccess reports whether the actor may read and write the folder
func (f Folder) CanAccess(actor Actor) bool {
	if actor.IsHROrAdmin() || f.OwnerID == actor.UserID {
		return true
	}
	return f.EmployeeID != nil && *f.EmployeeID == actor.UserID
}

type Document struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	FolderID    uint64         `gorm:"not null;index" json:"folder_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	ContentType string         `gorm:"type:varchar(100)" json:"content_type"`
	Size        int64          `gorm:"not null" json:"size"`
	StorageKey  string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	UploadedBy  uint64         `gorm:"not null" json:"uploaded_by"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Folder Folder `gorm:"foreignKey:FolderID" json:"-"`
}
