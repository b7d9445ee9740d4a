package scoring

import (
	"strconv"
	"strings"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// Overrides holds the subset of profile fields present in a request payload.
// Nil means the field was not supplied and the stored value is kept.
type Overrides struct {
	Late30                     *int
	Late60                     *int
	Late90Plus                 *int
	MonthsSinceLastDelinquency *int
	TotalAccounts              *int
	HardInquiries12M           *int
	NewAccounts12M             *int

	RevolvingUtilization    *float64
	InstallmentBalanceRatio *float64
	AgeOldestAcctYears      *float64
	AvgAgeYears             *float64

	HasCollection    *bool
	HasBankruptcy    *bool
	HasMortgage      *bool
	HasInstallment   *bool
	HasRevolving     *bool
	HasStudentOrAuto *bool
}

// Empty reports whether no field was supplied.
func (o Overrides) Empty() bool {
	return o == Overrides{}
}

// Apply patches the supplied fields onto the profile.
func (o Overrides) Apply(p *models.CreditProfile) {
	if o.Late30 != nil {
		p.Late30 = *o.Late30
	}
	if o.Late60 != nil {
		p.Late60 = *o.Late60
	}
	if o.Late90Plus != nil {
		p.Late90Plus = *o.Late90Plus
	}
	if o.MonthsSinceLastDelinquency != nil {
		v := *o.MonthsSinceLastDelinquency
		p.MonthsSinceLastDelinquency = &v
	}
	if o.TotalAccounts != nil {
		p.TotalAccounts = *o.TotalAccounts
	}
	if o.HardInquiries12M != nil {
		p.HardInquiries12M = *o.HardInquiries12M
	}
	if o.NewAccounts12M != nil {
		p.NewAccounts12M = *o.NewAccounts12M
	}
	if o.RevolvingUtilization != nil {
		p.RevolvingUtilization = *o.RevolvingUtilization
	}
	if o.InstallmentBalanceRatio != nil {
		p.InstallmentBalanceRatio = *o.InstallmentBalanceRatio
	}
	if o.AgeOldestAcctYears != nil {
		p.AgeOldestAcctYears = *o.AgeOldestAcctYears
	}
	if o.AvgAgeYears != nil {
		p.AvgAgeYears = *o.AvgAgeYears
	}
	if o.HasCollection != nil {
		p.HasCollection = *o.HasCollection
	}
	if o.HasBankruptcy != nil {
		p.HasBankruptcy = *o.HasBankruptcy
	}
	if o.HasMortgage != nil {
		p.HasMortgage = *o.HasMortgage
	}
	if o.HasInstallment != nil {
		p.HasInstallment = *o.HasInstallment
	}
	if o.HasRevolving != nil {
		p.HasRevolving = *o.HasRevolving
	}
	if o.HasStudentOrAuto != nil {
		p.HasStudentOrAuto = *o.HasStudentOrAuto
	}
}

// ParsePartial extracts profile overrides from a loosely-typed payload.
// Unknown keys are ignored; known keys with the wrong type are reported in
// the errors map, one message per field.
func ParsePartial(payload map[string]any) (Overrides, map[string]string) {
	var o Overrides
	errs := map[string]string{}

	intField := func(key string, dst **int) {
		v, present := payload[key]
		if !present || v == nil {
			return
		}
		n, ok := asInt(v)
		if !ok {
			errs[key] = "must be integer"
			return
		}
		*dst = &n
	}
	floatField := func(key string, dst **float64) {
		v, present := payload[key]
		if !present || v == nil {
			return
		}
		f, ok := asFloat(v)
		if !ok {
			errs[key] = "must be float"
			return
		}
		*dst = &f
	}
	boolField := func(key string, dst **bool) {
		v, present := payload[key]
		if !present || v == nil {
			return
		}
		b, ok := asBool(v)
		if !ok {
			errs[key] = "must be boolean"
			return
		}
		*dst = &b
	}

	intField("late_30", &o.Late30)
	intField("late_60", &o.Late60)
	intField("late_90p", &o.Late90Plus)
	intField("months_since_last_delinquency", &o.MonthsSinceLastDelinquency)
	intField("total_accounts", &o.TotalAccounts)
	intField("hard_inquiries_12m", &o.HardInquiries12M)
	intField("new_accounts_12m", &o.NewAccounts12M)

	floatField("revolving_utilization", &o.RevolvingUtilization)
	floatField("installment_balance_ratio", &o.InstallmentBalanceRatio)
	floatField("age_oldest_acct_years", &o.AgeOldestAcctYears)
	floatField("avg_age_years", &o.AvgAgeYears)

	boolField("has_collection", &o.HasCollection)
	boolField("has_bankruptcy", &o.HasBankruptcy)
	boolField("has_mortgage", &o.HasMortgage)
	boolField("has_installment", &o.HasInstallment)
	boolField("has_revolving", &o.HasRevolving)
	boolField("has_student_or_auto", &o.HasStudentOrAuto)

	if o.RevolvingUtilization != nil && (*o.RevolvingUtilization < 0 || *o.RevolvingUtilization > 1) {
		errs["revolving_utilization"] = "range 0.0–1.0"
	}
	if o.InstallmentBalanceRatio != nil && (*o.InstallmentBalanceRatio < 0 || *o.InstallmentBalanceRatio > 1) {
		errs["installment_balance_ratio"] = "range 0.0–1.0"
	}

	return o, errs
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
