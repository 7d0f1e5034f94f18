package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"offerless/internal/pkg/jwt"
	"offerless/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenRevoked    = errors.New("token revoked")
)

const revokedKeyPrefix = "auth:revoked:"

// Session is the verified identity behind a request.
type Session struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// RevocationStore keeps signed-out tokens until they would have expired.
type RevocationStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type Service struct {
	tokens  jwt.Service
	revoked RevocationStore
	logger  logrus.FieldLogger

	now func() time.Time
}

func NewService(tokens jwt.Service, revoked RevocationStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{tokens: tokens, revoked: revoked, logger: log, now: time.Now}
}

// Authenticate verifies the token and checks it has not been signed out.
// A revocation store outage is logged and does not reject the request.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" || s.tokens == nil {
		return Session{}, ErrUnauthenticated
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return Session{}, errors.Join(ErrUnauthenticated, err)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.Exists(ctx, revokedKey(token))
		if err != nil {
			s.logger.WithError(err).Warn("revocation check unavailable")
		} else if revoked {
			return Session{}, errors.Join(ErrUnauthenticated, ErrTokenRevoked)
		}
	}

	uid, _ := claims.UserID()
	sess := Session{UserID: uid, Email: claims.Email}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// SignOut deny-lists a still-valid token for the rest of its lifetime.
// Invalid, expired or missing tokens are ignored so sign-out is idempotent.
func (s *Service) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || s.tokens == nil || s.revoked == nil {
		return nil
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Set(ctx, revokedKey(token), "1", ttl)
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
