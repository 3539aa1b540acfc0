package posting

import (
	"time"

	"github.com/google/uuid"
)

// Case labels one accounting interpretation of a contribution change
type Case string

const (
	CaseIncoming              Case = "incoming"
	CaseOutgoing              Case = "outgoing"
	CaseRebooking             Case = "rebooking"
	CaseAmountCorrection      Case = "amount_correction"
	CaseReceiveDateCorrection Case = "receive_date_correction"
	CaseRefundDateCorrection  Case = "refund_date_correction"
)

// Posting is one recorded movement of funds between two financial accounts
// with a signed amount. A rebooking derives two symmetric postings: amounts
// negated, accounts swapped, so the pair nets to zero.
type Posting struct {
	ID                  uuid.UUID `json:"id" bson:"id"`
	SubjectID           int64     `json:"subject_id" bson:"subject_id"` // contribution the posting was derived from
	Case                Case      `json:"case" bson:"case"`
	TrxnDate            time.Time `json:"trxn_date" bson:"trxn_date"`
	TotalAmount         float64   `json:"total_amount" bson:"total_amount"`
	FeeAmount           float64   `json:"fee_amount" bson:"fee_amount"`
	NetAmount           float64   `json:"net_amount" bson:"net_amount"`
	Currency            string    `json:"currency" bson:"currency"`
	TrxnID              string    `json:"trxn_id,omitempty" bson:"trxn_id,omitempty"`
	StatusID            string    `json:"status_id" bson:"status_id"`
	PaymentProcessorID  string    `json:"payment_processor_id,omitempty" bson:"payment_processor_id,omitempty"`
	PaymentInstrumentID string    `json:"payment_instrument_id,omitempty" bson:"payment_instrument_id,omitempty"`
	CheckNumber         string    `json:"check_number,omitempty" bson:"check_number,omitempty"`
	FromAccountID       int64     `json:"from_account_id" bson:"from_account_id"`
	ToAccountID         int64     `json:"to_account_id" bson:"to_account_id"`
	CorrelationID       string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
}
