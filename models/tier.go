package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminTaskTierName is the internal tier used for operator task
// pseudo-events created by the escalation flow.
const AdminTaskTierName = "Admin Task"

// Manifest is the ordered list of channel tags for a tier. The order
// defines the escalation hierarchy (cheapest first) and its length the
// number of notifications scheduled per event.
type Manifest []string

func (m Manifest) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Manifest) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for manifest column")
	}
}

type Tier struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"uniqueIndex;not null"`
	Manifest Manifest  `gorm:"type:jsonb;not null"`
	IsActive bool      `gorm:"default:true"`

	gorm.Model
}

func (t *Tier) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
