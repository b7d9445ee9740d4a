package models

// CreditProfile holds the factors used by the educational FICO-like score.
// Field groups mirror the scoring weights: payment history 35%, amounts owed
// 30%, length of history 15%, new credit 10%, credit mix 10%.
type CreditProfile struct {
	// Payment history
	Late30                     int  `json:"late_30"`
	Late60                     int  `json:"late_60"`
	Late90Plus                 int  `json:"late_90p"`
	HasCollection              bool `json:"has_collection"`
	HasBankruptcy              bool `json:"has_bankruptcy"`
	MonthsSinceLastDelinquency *int `json:"months_since_last_delinquency"`

	// Amounts owed / utilization
	RevolvingUtilization    float64 `json:"revolving_utilization"`
	InstallmentBalanceRatio float64 `json:"installment_balance_ratio"`
	TotalAccounts           int     `json:"total_accounts"`

	// Length of history
	AgeOldestAcctYears float64 `json:"age_oldest_acct_years"`
	AvgAgeYears        float64 `json:"avg_age_years"`

	// New credit
	HardInquiries12M int `json:"hard_inquiries_12m"`
	NewAccounts12M   int `json:"new_accounts_12m"`

	// Credit mix
	HasMortgage      bool `json:"has_mortgage"`
	HasInstallment   bool `json:"has_installment"`
	HasRevolving     bool `json:"has_revolving"`
	HasStudentOrAuto bool `json:"has_student_or_auto"`
}

// DefaultProfile returns the baseline profile used when no stored or generated
// data is available.
func DefaultProfile() CreditProfile {
	return CreditProfile{
		TotalAccounts:      5,
		AgeOldestAcctYears: 6.0,
		AvgAgeYears:        3.0,
		HasInstallment:     true,
		HasRevolving:       true,
	}
}
