package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satuatap/credit-decision-service/internal/models"
)

// ErrProfileNotFound is returned when no stored profile exists for a user.
var ErrProfileNotFound = errors.New("credit profile not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetProfile retrieves a stored credit profile by user id
func (r *Repository) GetProfile(userID string) (*models.CreditProfile, error) {
	p := &models.CreditProfile{}
	query := `
		SELECT late_30, late_60, late_90p, has_collection, has_bankruptcy,
		       months_since_last_delinquency,
		       revolving_utilization, installment_balance_ratio, total_accounts,
		       age_oldest_acct_years, avg_age_years,
		       hard_inquiries_12m, new_accounts_12m,
		       has_mortgage, has_installment, has_revolving, has_student_or_auto
		FROM credit_profiles
		WHERE user_id = $1`
	var monthsSince sql.NullInt64
	err := r.db.QueryRow(query, userID).Scan(
		&p.Late30, &p.Late60, &p.Late90Plus, &p.HasCollection, &p.HasBankruptcy,
		&monthsSince,
		&p.RevolvingUtilization, &p.InstallmentBalanceRatio, &p.TotalAccounts,
		&p.AgeOldestAcctYears, &p.AvgAgeYears,
		&p.HardInquiries12M, &p.NewAccounts12M,
		&p.HasMortgage, &p.HasInstallment, &p.HasRevolving, &p.HasStudentOrAuto,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit profile: %w", err)
	}
	if monthsSince.Valid {
		m := int(monthsSince.Int64)
		p.MonthsSinceLastDelinquency = &m
	}
	return p, nil
}

// SaveProfile inserts or updates the credit profile for a user
func (r *Repository) SaveProfile(userID string, p *models.CreditProfile) error {
	query := `
		INSERT INTO credit_profiles (
			user_id, late_30, late_60, late_90p, has_collection, has_bankruptcy,
			months_since_last_delinquency,
			revolving_utilization, installment_balance_ratio, total_accounts,
			age_oldest_acct_years, avg_age_years,
			hard_inquiries_12m, new_accounts_12m,
			has_mortgage, has_installment, has_revolving, has_student_or_auto,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			late_30 = EXCLUDED.late_30,
			late_60 = EXCLUDED.late_60,
			late_90p = EXCLUDED.late_90p,
			has_collection = EXCLUDED.has_collection,
			has_bankruptcy = EXCLUDED.has_bankruptcy,
			months_since_last_delinquency = EXCLUDED.months_since_last_delinquency,
			revolving_utilization = EXCLUDED.revolving_utilization,
			installment_balance_ratio = EXCLUDED.installment_balance_ratio,
			total_accounts = EXCLUDED.total_accounts,
			age_oldest_acct_years = EXCLUDED.age_oldest_acct_years,
			avg_age_years = EXCLUDED.avg_age_years,
			hard_inquiries_12m = EXCLUDED.hard_inquiries_12m,
			new_accounts_12m = EXCLUDED.new_accounts_12m,
			has_mortgage = EXCLUDED.has_mortgage,
			has_installment = EXCLUDED.has_installment,
			has_revolving = EXCLUDED.has_revolving,
			has_student_or_auto = EXCLUDED.has_student_or_auto,
			updated_at = CURRENT_TIMESTAMP`
	var monthsSince sql.NullInt64
	if p.MonthsSinceLastDelinquency != nil {
		monthsSince = sql.NullInt64{Int64: int64(*p.MonthsSinceLastDelinquency), Valid: true}
	}
	_, err := r.db.Exec(query,
		userID, p.Late30, p.Late60, p.Late90Plus, p.HasCollection, p.HasBankruptcy,
		monthsSince,
		p.RevolvingUtilization, p.InstallmentBalanceRatio, p.TotalAccounts,
		p.AgeOldestAcctYears, p.AvgAgeYears,
		p.HardInquiries12M, p.NewAccounts12M,
		p.HasMortgage, p.HasInstallment, p.HasRevolving, p.HasStudentOrAuto,
	)
	if err != nil {
		return fmt.Errorf("failed to save credit profile: %w", err)
	}
	return nil
}

// SaveDecision stores an issued decision for the audit trail
func (r *Repository) SaveDecision(rec *models.DecisionRecord) error {
	query := `
		INSERT INTO decisions (user_id, decision, confidence, model, result, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	var userID sql.NullString
	if rec.UserID != "" {
		userID = sql.NullString{String: rec.UserID, Valid: true}
	}
	err := r.db.QueryRow(query, userID, string(rec.Decision), rec.Confidence, rec.Model, rec.Result).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	return nil
}

// DeleteDecisionsBefore purges audit entries older than the cutoff
func (r *Repository) DeleteDecisionsBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM decisions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge decisions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
