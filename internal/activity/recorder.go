package activity

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/clipperhub/barbershop-platform/internal/models"
)

// Recorder writes activity rows synchronously. Lifecycle operations do their
// own in-transaction inserts through the account repository; this recorder is
// for handler-level writes that share the request's connection.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ctx context.Context, barbershopID uint, actionType, description string, amount *float64, metadata any) error {
	row := models.Activity{
		BarbershopID: barbershopID,
		ActionType:   actionType,
		Description:  description,
		Amount:       amount,
		Metadata:     MarshalMetadata(metadata),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// MarshalMetadata renders metadata as JSON text; a marshal failure yields an
// empty payload rather than a failed activity write.
func MarshalMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
