package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

// maxTokenLen bounds decoding work for hostile input.
const maxTokenLen = 2048

// shareAudience keeps share tokens and access tokens apart even though both
// are signed with the same key.
const shareAudience = "mindtrack-share"

// SharePayload is what a share link reveals: the score and a one-line
// summary, never the raw answers.
type SharePayload struct {
	Score     int       `json:"score"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

func Summary(score int, completedAt time.Time) string {
	return fmt.Sprintf("Wellness Score: %d%%, Latest assessment from %s", score, completedAt.UTC().Format(wellness.DateLayout))
}

func NewSharePayload(in *wellness.Insights, completedAt time.Time) SharePayload {
	return SharePayload{
		Score:     in.Score,
		Summary:   Summary(in.Score, completedAt),
		Timestamp: completedAt.UTC(),
	}
}

type shareClaims struct {
	SharePayload
	jwt.RegisteredClaims
}

// ShareSigner issues and verifies share tokens: HS256 JWTs carrying the
// payload, an audience and an expiry.
type ShareSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewShareSigner(secret string, ttl time.Duration) *ShareSigner {
	return &ShareSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *ShareSigner) Encode(p SharePayload) (string, error) {
	now := s.now()
	claims := shareClaims{
		SharePayload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{shareAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Decode accepts only tokens this signer issued that have not expired and
// carry a score in 0..100. Errors wrap ErrInvalidArgument.
func (s *ShareSigner) Decode(token string) (SharePayload, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > maxTokenLen {
		return SharePayload{}, fmt.Errorf("share token length: %w", pkgerrors.ErrInvalidArgument)
	}
	var claims shareClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SharePayload{}, fmt.Errorf("share link expired: %w", pkgerrors.ErrInvalidArgument)
		}
		return SharePayload{}, fmt.Errorf("share token: %w", pkgerrors.ErrInvalidArgument)
	}
	p := claims.SharePayload
	if p.Score < 0 || p.Score > 100 || p.Summary == "" || p.Timestamp.IsZero() {
		return SharePayload{}, fmt.Errorf("share token fields: %w", pkgerrors.ErrInvalidArgument)
	}
	return p, nil
}

// ShareURL joins the public base with the token.
func ShareURL(base, token string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + "/shared/" + token
}
