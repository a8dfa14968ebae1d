package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'RunSnapshot' is the persisted copy of one run: economy, the jokers in
 * slot order and the state every joker and voucher accumulated so far.
 * Redis holds the hot copy; this row is what survives it.
 */
type RunSnapshot struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PassphraseHash string    `gorm:"not null"`
	Seed           int64     `gorm:"not null"`
	Money          int       `gorm:"default:0"`
	Ante           int       `gorm:"default:1"`
	Round          int       `gorm:"default:1"`
	Version        int64     `gorm:"default:0"`

	Jokers       datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	JokerState   datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	VoucherState datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Tags         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Progress     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time

	Vouchers []OwnedVoucher `gorm:"foreignKey:RunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (r *RunSnapshot) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OwnedVoucher records one voucher bought during a run
type OwnedVoucher struct {
	// NOTE: composite primary key definition
	RunID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Voucher     string    `gorm:"primaryKey;size:50;not null"`
	PurchasedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
