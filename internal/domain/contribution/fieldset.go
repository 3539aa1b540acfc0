// Package contribution models the loosely typed record state a contribution
// carries through the host's hook notifications, and the diff between two
// versions of that state.
package contribution

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Field names with meaning to the generation policy.
const (
	FieldID                  = "id"
	FieldStatusID            = "contribution_status_id"
	FieldTotalAmount         = "total_amount"
	FieldFeeAmount           = "fee_amount"
	FieldNetAmount           = "net_amount"
	FieldCurrency            = "currency"
	FieldTrxnID              = "trxn_id"
	FieldPaymentProcessorID  = "payment_processor_id"
	FieldPaymentInstrumentID = "payment_instrument_id"
	FieldCheckNumber         = "check_number"
	FieldReceiveDate         = "receive_date"
	FieldRefundDate          = "refund_date"
	FieldCampaignID          = "campaign_id"
)

// FieldSet is one version of a contribution record: field name to scalar
// value, as supplied by the host. A FieldSet is never mutated after capture;
// Merge returns a new one.
type FieldSet map[string]any

// Clone returns a shallow copy. Values are scalars, so shallow is enough.
func (f FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the field coerced to its canonical string form,
// or "" when absent.
func (f FieldSet) String(key string) string {
	return canonical(f[key])
}

// Int64 returns the field as an integer id, or 0 when absent or non-numeric.
func (f FieldSet) Int64(key string) int64 {
	v, err := strconv.ParseInt(f.String(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Float returns the field as a decimal amount. Missing or non-numeric
// values yield 0.
func (f FieldSet) Float(key string) float64 {
	v, err := strconv.ParseFloat(f.String(key), 64)
	if err != nil {
		return 0
	}
	return v
}

// Empty reports whether the field is absent or coerces to "".
func (f FieldSet) Empty(key string) bool {
	return f.String(key) == ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102150405",
}

// Date parses the field under the host's usual date renderings.
func (f FieldSet) Date(key string) (time.Time, error) {
	raw := f.String(key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("field %s is empty", key)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("field %s has unparseable date %q", key, raw)
}

// ChangeSet is the set of field names whose value differs between two
// versions of a record.
type ChangeSet map[string]struct{}

// Contains reports whether the field changed.
func (c ChangeSet) Contains(field string) bool {
	_, ok := c[field]
	return ok
}

// ContainsAny reports whether any of the fields changed.
func (c ChangeSet) ContainsAny(fields []string) bool {
	for _, f := range fields {
		if c.Contains(f) {
			return true
		}
	}
	return false
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// Fields returns the changed field names in sorted order, for logging.
func (c ChangeSet) Fields() []string {
	out := make([]string, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Merge overlays the supplied (possibly partial) values onto the old state
// and returns the merged new state plus the change-set between old and new.
//
// Null supplied values mean "not supplied", not "clear this field". Fields
// the update omitted are backfilled from the old state, so omission never
// registers as a change. Comparison is loose value equality: "100", 100 and
// 100.0 are the same value.
func Merge(old FieldSet, supplied FieldSet) (FieldSet, ChangeSet) {
	merged := old.Clone()
	for k, v := range supplied {
		if v != nil {
			merged[k] = v
		}
	}

	changes := make(ChangeSet)
	for k, v := range merged {
		if !looseEqual(v, old[k]) {
			changes[k] = struct{}{}
		}
	}
	return merged, changes
}

// canonical renders a scalar the way the host would compare it: nil as the
// empty string, numbers without a trailing fraction.
func canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(t)
	}
}

func looseEqual(a, b any) bool {
	ca, cb := canonical(a), canonical(b)
	if ca == cb {
		return true
	}
	fa, errA := strconv.ParseFloat(ca, 64)
	fb, errB := strconv.ParseFloat(cb, 64)
	return errA == nil && errB == nil && fa == fb
}
