package campaign

import (
	"errors"
	"time"
)

var ErrIncompleteAccountingCodes = errors.New("campaign is missing accounting codes")

// AccountingCodes is a campaign's accounting-code classification: which
// target account a contribution's funds flow into, keyed by whether the
// receive date falls in the acquisition year or a following year.
type AccountingCodes struct {
	AcquisitionYear int    `json:"acquisition_year"`
	Acquisition     string `json:"acquisition_code"`
	FollowingYears  string `json:"following_years_code"`
}

// Complete reports whether both codes are configured
func (c AccountingCodes) Complete() bool {
	return c.Acquisition != "" && c.FollowingYears != ""
}

// Campaign is the fundraising campaign a contribution is booked against
type Campaign struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Codes          AccountingCodes `json:"codes"`
	ProfitLossCode string          `json:"profit_loss_code"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Validate rejects campaigns whose accounting classification is incomplete,
// so derivation never runs against empty codes.
func (c *Campaign) Validate() error {
	if !c.Codes.Complete() {
		return ErrIncompleteAccountingCodes
	}
	return nil
}
