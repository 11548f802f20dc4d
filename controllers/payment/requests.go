package paymentController

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// MinimumAmount is the lowest accepted charge, in NPR rupees.
const MinimumAmount = 10.0

// InitiateRequest is the validated initiate payload. For ad promotions
// the metadata names the promotion type and duration.
type InitiateRequest struct {
	Gateway       string  `json:"gateway"`
	Amount        float64 `json:"amount"`
	PaymentType   string  `json:"paymentType"`
	RelatedID     uint    `json:"relatedId"`
	PromotionType string  `json:"promotionType"`
	DurationDays  int     `json:"durationDays"`
}

// transactionMetadata is what initiate stores on the transaction row and
// what the side-effect pass reads back.
type transactionMetadata struct {
	PromotionType string `json:"promotion_type,omitempty"`
	DurationDays  int    `json:"duration_days,omitempty"`
}

// MetadataJSON encodes the promotion details for the transaction row.
func (r *InitiateRequest) MetadataJSON() (datatypes.JSON, error) {
	meta := transactionMetadata{
		PromotionType: r.PromotionType,
		DurationDays:  r.DurationDays,
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
