package handler

// HookNotificationRequest represents one hook notification from the CRM.
// The pre notification of an edit must carry the full record state in
// values; the post notification carries only the fields the update supplied.
type HookNotificationRequest struct {
	Operation string         `json:"operation" binding:"required,oneof=create edit"`
	SubjectID int64          `json:"subject_id" binding:"min=0"`
	Values    map[string]any `json:"values" binding:"required"`
}

// HookAcceptedResponse acknowledges an enqueued hook notification
type HookAcceptedResponse struct {
	EventID   string `json:"event_id"`
	Phase     string `json:"phase"`
	Operation string `json:"operation"`
	SubjectID int64  `json:"subject_id"`
}

// PostingResponse represents a journal posting in API responses
type PostingResponse struct {
	ID                  string  `json:"id"`
	SubjectID           int64   `json:"subject_id"`
	Case                string  `json:"case"`
	TrxnDate            string  `json:"trxn_date"`
	TotalAmount         float64 `json:"total_amount"`
	FeeAmount           float64 `json:"fee_amount"`
	NetAmount           float64 `json:"net_amount"`
	Currency            string  `json:"currency"`
	TrxnID              string  `json:"trxn_id,omitempty"`
	StatusID            string  `json:"status_id"`
	PaymentInstrumentID string  `json:"payment_instrument_id,omitempty"`
	CheckNumber         string  `json:"check_number,omitempty"`
	FromAccountID       int64   `json:"from_account_id"`
	ToAccountID         int64   `json:"to_account_id"`
	CreatedAt           string  `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
