package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GatewayKhalti = "KHALTI"
	GatewayEsewa  = "ESEWA"

	PaymentTypeAdPromotion            = "AD_PROMOTION"
	PaymentTypeIndividualVerification = "INDIVIDUAL_VERIFICATION"
	PaymentTypeBusinessVerification   = "BUSINESS_VERIFICATION"

	TransactionStatusPending  = "PENDING"
	TransactionStatusVerified = "VERIFIED"
	TransactionStatusFailed   = "FAILED"
	TransactionStatusCanceled = "CANCELED"
)

// PaymentTransaction is one attempt to pay for a promotion or a
// verification review. Rows are never deleted; they are the audit trail.
type PaymentTransaction struct {
	gorm.Model
	UserID      uint    `json:"user_id" gorm:"index"`
	OrderID     string  `json:"order_id" gorm:"uniqueIndex;not null"`
	Gateway     string  `json:"gateway" gorm:"not null"`
	Amount      float64 `json:"amount"` // NPR rupees
	PaymentType string  `json:"payment_type" gorm:"not null"`
	RelatedID   uint    `json:"related_id"` // ad or verification request being paid for
	Status      string  `json:"status" gorm:"default:'PENDING';index"`

	PaymentURL  string         `json:"payment_url"`
	ReferenceID string         `json:"reference_id"` // gateway-assigned id (pidx / transaction_code)
	Metadata    datatypes.JSON `json:"metadata"`
	GatewayRaw  datatypes.JSON `json:"-"` // last raw verify response, for audits

	VerifiedAt *time.Time `json:"verified_at"`
}

// IsTerminal reports whether the transaction has left PENDING.
func (t *PaymentTransaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
