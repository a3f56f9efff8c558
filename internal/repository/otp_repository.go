package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrChallengeNotFound is returned when no live challenge matches.
	ErrChallengeNotFound = errors.New("otp challenge not found")

	// ErrChallengeNotTransitionable is returned when a state change is
	// requested on a challenge that is not in the required state. This is
	// what makes a challenge single-use: verifying twice, or consuming an
	// unverified challenge, lands here.
	ErrChallengeNotTransitionable = errors.New("otp challenge not in required state")
)

// OtpRepository provides access to the otp_challenges table
type OtpRepository struct {
	pool *pgxpool.Pool
}

// NewOtpRepository creates a new OtpRepository
func NewOtpRepository(pool *pgxpool.Pool) *OtpRepository {
	return &OtpRepository{pool: pool}
}

// Replace installs a fresh pending challenge for the email, displacing any
// previous one. Requesting or resending a code always goes through here, so
// at most one challenge is ever live per email.
func (r *OtpRepository) Replace(ctx context.Context, challenge *models.OtpChallenge) error {
	start := time.Now()
	operation := "replaceOtpChallenge"

	query := `
		INSERT INTO otp_challenges (email, code, role, status, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), 'pending', $4)
		ON CONFLICT (email) DO UPDATE SET
			code = EXCLUDED.code,
			role = EXCLUDED.role,
			status = 'pending',
			expires_at = EXCLUDED.expires_at,
			created_at = now(),
			verified_at = NULL,
			consumed_at = NULL
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		challenge.Email, challenge.Code, string(challenge.Role), challenge.ExpiresAt,
	).Scan(&challenge.ID)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to replace otp challenge: %w", err)
	}

	r.record(operation, "success", start)
	return nil
}

// GetActiveByEmail fetches the live (pending or verified, unexpired)
// challenge for an email. The code comparison itself happens in the service
// layer with a timing-safe compare.
func (r *OtpRepository) GetActiveByEmail(ctx context.Context, email string) (*models.OtpChallenge, error) {
	start := time.Now()
	operation := "getOtpChallenge"

	query := `
		SELECT id, email, code, COALESCE(role, ''), status, expires_at, created_at, verified_at, consumed_at
		FROM otp_challenges
		WHERE email = $1 AND status IN ('pending', 'verified') AND expires_at > now()
	`

	var c models.OtpChallenge
	var role string
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.Code, &role, &c.Status,
		&c.ExpiresAt, &c.CreatedAt, &c.VerifiedAt, &c.ConsumedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.record(operation, "not_found", start)
			return nil, ErrChallengeNotFound
		}
		r.record(operation, "error", start, zap.Error(err))
		return nil, fmt.Errorf("failed to query otp challenge: %w", err)
	}
	c.Role = models.Role(role)

	r.record(operation, "success", start)
	return &c, nil
}

// MarkVerified transitions a challenge from pending to verified. The guarded
// WHERE clause enforces single use: a challenge that was already verified
// (or expired) does not transition again.
func (r *OtpRepository) MarkVerified(ctx context.Context, id string) error {
	return r.transition(ctx, "markOtpVerified",
		`UPDATE otp_challenges
		 SET status = 'verified', verified_at = now()
		 WHERE id = $1 AND status = 'pending' AND expires_at > now()`, id)
}

// Consume transitions a challenge from verified to consumed. Only a verified
// challenge can authorize a finalize-registration or password-reset call, and
// it can do so exactly once.
func (r *OtpRepository) Consume(ctx context.Context, id string) error {
	return r.transition(ctx, "consumeOtp",
		`UPDATE otp_challenges
		 SET status = 'consumed', consumed_at = now()
		 WHERE id = $1 AND status = 'verified'`, id)
}

func (r *OtpRepository) transition(ctx context.Context, operation, query, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to transition otp challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.record(operation, "rejected", start, zap.String("challenge_id", id))
		return ErrChallengeNotTransitionable
	}

	r.record(operation, "success", start)
	return nil
}

func (r *OtpRepository) record(operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall("postgres", operation, status, duration, fields...)
}
