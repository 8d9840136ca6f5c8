// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/julisha-ke/julisha-api/auth"
	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/julisha-ke/julisha-api/metrics"
	"github.com/julisha-ke/julisha-api/models"
	"github.com/julisha-ke/julisha-api/ratelimit"
	"github.com/julisha-ke/julisha-api/sms"
	"github.com/julisha-ke/julisha-api/store"
)

const (
	maxCountyLen     = 64
	maxCommentLen    = 500
	adminCommentLen  = 100
	RecentVotesLimit = 50
)

// Service runs the signing pipeline on top of the stores
type Service struct {
	db      *sql.DB
	votes   *store.VoteStore
	codes   *store.CodeStore
	sender  sms.Sender
	metrics *metrics.Metrics

	serverSalt string
	publicSalt string
	timeout    time.Duration
	now        func() time.Time
}

func NewService(db *sql.DB, cfg cliparse.Config, sender sms.Sender, m *metrics.Metrics) *Service {
	timeout := cfg.Timeout()
	return &Service{
		db:         db,
		votes:      store.NewVoteStore(db),
		codes:      store.NewCodeStore(db),
		sender:     sender,
		metrics:    m,
		serverSalt: cfg.ServerSalt,
		publicSalt: cfg.PublicSalt,
		timeout:    timeout,
		now:        time.Now,
	}
}

// IssuedCode is the result of a verification code request
type IssuedCode struct {
	Code      string
	ExpiresAt time.Time
}

// SubmitInput is a decoded submission. Identifier is the client-side hash.
type SubmitInput struct {
	Type             string
	Identifier       string
	VerificationCode string
	County           string
	Comment          string
	ClientIP         string
}

type SubmitResult struct {
	TotalVotes        int64
	VerificationToken string
}

type CountSummary struct {
	Count      int64
	Target     int64
	Percentage float64
}

// phoneHash is the final hash of a phone number: the hash the browser
// sends for the normalized number, hashed again with the server salt.
func (s *Service) phoneHash(normalized string) string {
	return auth.ServerHash(auth.ClientHash(normalized, s.publicSalt), s.serverSalt)
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// RequestCode issues a verification code for a phone that has not signed yet
// and hands it to the SMS sender.
func (s *Service) RequestCode(ctx context.Context, rawPhone string) (IssuedCode, error) {
	phone, err := auth.NormalizePhone(rawPhone)
	if err != nil {
		return IssuedCode{}, invalid("phoneNumber", "must be a valid Kenyan mobile number")
	}
	finalHash := s.phoneHash(phone)

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	exists, err := s.votes.Exists(sctx, finalHash)
	if err != nil {
		s.metrics.IncrementStoreErrors("exists")
		return IssuedCode{}, err
	}
	if exists {
		return IssuedCode{}, ErrAlreadySigned
	}

	code, expiresAt, err := s.codes.Issue(sctx, finalHash, s.now())
	if err != nil {
		s.metrics.IncrementStoreErrors("issue_code")
		return IssuedCode{}, err
	}

	if err := s.sender.SendVerificationCode(sctx, phone, code, expiresAt); err != nil {
		return IssuedCode{}, fmt.Errorf("send verification code: %w", err)
	}
	s.metrics.IncrementCodesIssued()

	return IssuedCode{Code: code, ExpiresAt: expiresAt}, nil
}

// Submit records a signature. Dedup, code consumption, the per-IP daily cap
// and the insert either all take effect or none do.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	res, err := s.submit(ctx, in)
	s.metrics.IncrementSubmission(outcome(err))
	return res, err
}

// RejectInvalid counts a submission refused before it reached Submit
func (s *Service) RejectInvalid() {
	s.metrics.IncrementSubmission(metrics.OutcomeInvalid)
}

func (s *Service) submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	in.County = strings.TrimSpace(in.County)
	in.Comment = strings.TrimSpace(in.Comment)
	in.Identifier = strings.ToLower(strings.TrimSpace(in.Identifier))

	switch {
	case in.Type != models.TypeID && in.Type != models.TypePhone:
		return SubmitResult{}, invalid("type", "must be id or phone")
	case !auth.ValidIdentifierToken(in.Identifier):
		return SubmitResult{}, invalid("identifier", "must be a 64 character hex hash")
	case in.County == "":
		return SubmitResult{}, invalid("county", "is required")
	case utf8.RuneCountInString(in.County) > maxCountyLen:
		return SubmitResult{}, invalid("county", "is too long")
	case utf8.RuneCountInString(in.Comment) > maxCommentLen:
		return SubmitResult{}, invalid("comment", "must be at most 500 characters")
	case in.Type == models.TypePhone && in.VerificationCode == "":
		return SubmitResult{}, invalid("verificationCode", "is required for phone verification")
	}

	finalHash := auth.ServerHash(in.Identifier, s.serverSalt)
	ipHash := auth.HashIP(in.ClientIP, s.serverSalt)

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	exists, err := s.votes.Exists(sctx, finalHash)
	if err != nil {
		s.metrics.IncrementStoreErrors("exists")
		return SubmitResult{}, err
	}
	if exists {
		return SubmitResult{}, ErrDuplicateSignature
	}

	token, err := auth.GenerateVerificationToken()
	if err != nil {
		return SubmitResult{}, err
	}

	now := s.now().UTC()
	var total int64
	err = store.InTx(sctx, s.db, func(q store.Querier) error {
		if in.Type == models.TypePhone {
			if err := s.codes.Consume(sctx, q, finalHash, in.VerificationCode, now); err != nil {
				return err
			}
		}

		if err := s.votes.LockIP(sctx, q, ipHash); err != nil {
			return err
		}
		recent, err := s.votes.CountSince(sctx, q, ipHash, now.Add(-ratelimit.IPSignatureWindow))
		if err != nil {
			return err
		}
		if recent >= ratelimit.IPSignatureLimit {
			return ErrRateLimited
		}

		total, err = s.votes.Insert(sctx, q, &models.Signature{
			HashedIdentifier:  finalHash,
			VerificationType:  in.Type,
			County:            in.County,
			Comment:           in.Comment,
			IPHash:            ipHash,
			VerificationToken: token,
			CreatedAt:         now,
		})
		return err
	})
	if err != nil {
		if outcome(err) == metrics.OutcomeInternalError {
			s.metrics.IncrementStoreErrors("submit")
		}
		return SubmitResult{}, err
	}

	slog.Info("signature accepted",
		"type", in.Type,
		"county", in.County,
		"total", humanize.Comma(total),
	)

	return SubmitResult{TotalVotes: total, VerificationToken: token}, nil
}

// Count returns progress towards the target
func (s *Service) Count(ctx context.Context) (CountSummary, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	count, err := s.votes.Count(sctx)
	if err != nil {
		s.metrics.IncrementStoreErrors("count")
		return CountSummary{}, err
	}

	return CountSummary{
		Count:      count,
		Target:     models.TargetSignatures,
		Percentage: Percentage(count, models.TargetSignatures),
	}, nil
}

func (s *Service) Counties(ctx context.Context) ([]models.CountyCount, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	counties, err := s.votes.CountByCounty(sctx)
	if err != nil {
		s.metrics.IncrementStoreErrors("counties")
		return nil, err
	}
	return counties, nil
}

// Recent lists the newest signatures for moderators, without any hashes
func (s *Service) Recent(ctx context.Context) ([]models.RecentVote, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	sigs, err := s.votes.Recent(sctx, RecentVotesLimit)
	if err != nil {
		s.metrics.IncrementStoreErrors("recent")
		return nil, err
	}

	now := s.now()
	votes := make([]models.RecentVote, 0, len(sigs))
	for _, sig := range sigs {
		votes = append(votes, models.RecentVote{
			Type:      sig.VerificationType,
			County:    sig.County,
			Comment:   truncate(sig.Comment, adminCommentLen),
			CreatedAt: sig.CreatedAt,
			Age:       humanize.RelTime(sig.CreatedAt, now, "ago", "from now"),
		})
	}
	return votes, nil
}

// Percentage is count/target as a percentage, capped at 100 and rounded to
// two decimals.
func Percentage(count, target int64) float64 {
	if target <= 0 {
		return 0
	}
	pct := math.Min(float64(count)/float64(target)*100, 100)
	return math.Round(pct*100) / 100
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrDuplicateSignature):
		return metrics.OutcomeDuplicate
	case errors.Is(err, ErrInvalidOrExpiredCode):
		return metrics.OutcomeInvalidCode
	case errors.Is(err, ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeInternalError
	}
}
