package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/satuatap/credit-decision-service/internal/config"
	"github.com/satuatap/credit-decision-service/internal/ensemble"
	"github.com/satuatap/credit-decision-service/internal/integrations/keyrate"
	"github.com/satuatap/credit-decision-service/internal/models"
	"github.com/satuatap/credit-decision-service/internal/notify"
	"github.com/satuatap/credit-decision-service/internal/repository"
	"github.com/satuatap/credit-decision-service/internal/scoring"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadRequest wraps caller-level input errors so the handler can return a
// 400 instead of a 500. A REJECT decision is a valid outcome, never an error.
var ErrBadRequest = errors.New("bad request")

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	engine   *ensemble.Engine
	rates    *keyrate.Client
	notifier *notify.Sender
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service. notifier may be nil when SMTP is not
// configured; decision mails are then skipped.
func NewService(repo *repository.Repository, engine *ensemble.Engine, rates *keyrate.Client,
	notifier *notify.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		rates:    rates,
		notifier: notifier,
		log:      log,
		config:   cfg,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreditScore scores a profile. With a user id the stored profile is used,
// created from the deterministic generator when missing; overrides are
// persisted. Without a user id a throwaway profile is scored and nothing is
// stored.
func (s *Service) CreditScore(ctx context.Context, userID string, ov scoring.Overrides) (*models.ScoreResponse, error) {
	var p models.CreditProfile
	var src models.ScoreSource

	if userID != "" {
		stored, err := s.repo.GetProfile(userID)
		switch {
		case errors.Is(err, repository.ErrProfileNotFound):
			p = scoring.DummyProfile(userID)
			ov.Apply(&p)
			if err := s.repo.SaveProfile(userID, &p); err != nil {
				return nil, err
			}
			src = models.ScoreSource{FromDB: true, CreatedIfMissing: true, PersistedChanges: true}
		case err != nil:
			return nil, err
		default:
			p = *stored
			src.FromDB = true
			if !ov.Empty() {
				ov.Apply(&p)
				if err := s.repo.SaveProfile(userID, &p); err != nil {
					return nil, err
				}
				src.PersistedChanges = true
			}
		}
	} else {
		p = scoring.DummyProfile("")
		ov.Apply(&p)
	}

	score, breakdown := scoring.Score(p)
	return &models.ScoreResponse{
		Success:   true,
		Source:    src,
		UserID:    userID,
		InputUsed: p,
		Weights:   scoring.Weights,
		Score:     score,
		Breakdown: breakdown,
		Note:      scoring.Note,
	}, nil
}

// GetProfile returns the stored credit profile for a user.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.CreditProfile, error) {
	return s.repo.GetProfile(userID)
}

// UpsertProfile creates or patches the stored profile. The boolean reports
// whether a new record was created.
func (s *Service) UpsertProfile(ctx context.Context, userID string, ov scoring.Overrides) (*models.CreditProfile, bool, error) {
	stored, err := s.repo.GetProfile(userID)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		p := scoring.DummyProfile(userID)
		ov.Apply(&p)
		if err := s.repo.SaveProfile(userID, &p); err != nil {
			return nil, false, err
		}
		return &p, true, nil
	case err != nil:
		return nil, false, err
	default:
		p := *stored
		ov.Apply(&p)
		if err := s.repo.SaveProfile(userID, &p); err != nil {
			return nil, false, err
		}
		return &p, false, nil
	}
}

// Recommend runs the ensemble over the application documents. The profile
// document is required; the score document may be computed server-side when a
// user id is present. A rejection is a normal result, only unusable input is
// an error.
func (s *Service) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.DecisionEnvelope, error) {
	if req.Profile == nil {
		return nil, fmt.Errorf("%w: profile document is required", ErrBadRequest)
	}

	scoreDoc := req.Score
	if scoreDoc == nil {
		if req.UserID == "" {
			return nil, fmt.Errorf("%w: score document or user_id is required", ErrBadRequest)
		}
		resp, err := s.CreditScore(ctx, req.UserID, scoring.Overrides{})
		if err != nil {
			return nil, err
		}
		scoreDoc = map[string]any{
			"score":     resp.Score,
			"breakdown": resp.Breakdown,
		}
	}

	profileDoc := s.withEstimatedInstallment(req.Profile)

	envelope := s.engine.Decide(ctx, profileDoc, scoreDoc)

	if resultJSON, err := json.Marshal(envelope.Result); err == nil {
		rec := &models.DecisionRecord{
			UserID:     req.UserID,
			Decision:   envelope.Result.Decision,
			Confidence: envelope.Result.Confidence,
			Model:      envelope.Model,
			Result:     resultJSON,
		}
		if err := s.repo.SaveDecision(rec); err != nil {
			s.log.Errorf("Failed to persist decision: %v", err)
		}
	}

	if s.notifier != nil && req.ApplicantEmail != "" {
		if err := s.notifier.SendDecisionNotification(req.ApplicantEmail, envelope.Result); err != nil {
			s.log.Warnf("Decision notification not sent: %v", err)
		}
	}

	return envelope, nil
}

// withEstimatedInstallment fills in data.monthlyInstallment from the cached
// floating key rate when the application carries a loan amount and tenor but
// no installment figure. The original document is not mutated.
func (s *Service) withEstimatedInstallment(profile map[string]any) map[string]any {
	data, ok := profile["data"].(map[string]any)
	if !ok {
		return profile
	}
	if _, present := data["monthlyInstallment"]; present {
		return profile
	}

	loan, okLoan := toFloat(data["loanAmount"])
	months, okTerm := toFloat(data["termMonths"])
	if !okLoan || !okTerm || loan <= 0 || months <= 0 {
		return profile
	}
	rate, okRate := s.rates.Current()
	if !okRate {
		return profile
	}

	installment := EstimateInstallment(loan, rate, int(months))

	out := make(map[string]any, len(profile))
	for k, v := range profile {
		out[k] = v
	}
	newData := make(map[string]any, len(data)+1)
	for k, v := range data {
		newData[k] = v
	}
	newData["monthlyInstallment"] = installment
	out["data"] = newData

	s.log.Debugf("Estimated monthly installment %.0f from key rate %.2f%%", installment, rate)
	return out
}

// EstimateInstallment computes a monthly annuity payment for the given
// principal, annual percentage rate and tenor in months.
func EstimateInstallment(principal, annualRatePct float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(months)))
}

// PurgeOldDecisions removes audit entries past the retention window. Wired to
// the daily cron job.
func (s *Service) PurgeOldDecisions() {
	cutoff := time.Now().AddDate(0, 0, -s.config.DecisionRetentionDays)
	n, err := s.repo.DeleteDecisionsBefore(cutoff)
	if err != nil {
		s.log.Errorf("Decision purge failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Infof("Purged %d decisions older than %s", n, cutoff.Format("2006-01-02"))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
