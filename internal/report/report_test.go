package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

func derive(t *testing.T, raw wellness.RawCheckIn) (wellness.NormalizedCheckIn, *wellness.Insights) {
	t.Helper()
	n, err := wellness.Normalize(raw)
	require.NoError(t, err)
	return n, wellness.Derive(n, nil)
}

func TestRenderProducesPNG(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, raw := range []wellness.RawCheckIn{
		{ID: "distressed", Mood: 1, Stress: 9, SleepQuality: 1, Energy: 2, SocialConnection: 1, Timestamp: "2024-01-15T09:00:00Z"},
		{ID: "thriving", Mood: 5, Stress: 1, SleepQuality: 5, Energy: 9, SocialConnection: 5, Timestamp: "2024-01-15T09:00:00Z"},
	} {
		n, in := derive(t, raw)
		out, err := r.Render(Report{CheckIn: n, Insights: in, GeneratedAt: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)})
		require.NoError(t, err, raw.ID)

		img, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err, raw.ID)
		assert.Equal(t, pageWidth, img.Bounds().Dx())
		assert.Greater(t, img.Bounds().Dy(), 800)
	}
}

func TestRenderRequiresInsights(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	_, err = r.Render(Report{})
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 2, 29, 23, 30, 0, 0, time.FixedZone("x", -5*3600))
	assert.Equal(t, "MindTrack-Wellness-Report-2024-03-01.png", FileName(at))
}

func TestShareTokenRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	p := NewSharePayload(&wellness.Insights{Score: 55}, at)
	assert.Equal(t, "Wellness Score: 55%, Latest assessment from 2024-01-15", p.Summary)

	signer := NewShareSigner("share-secret", time.Hour)
	tok, err := signer.Encode(p)
	require.NoError(t, err)
	assert.NotContains(t, tok, "+")
	assert.NotContains(t, tok, "/")

	got, err := signer.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, p.Score, got.Score)
	assert.Equal(t, p.Summary, got.Summary)
	assert.True(t, p.Timestamp.Equal(got.Timestamp))

	assert.Equal(t, "https://mindtrack.app/shared/"+tok, ShareURL("https://mindtrack.app/", tok))
}

func TestDecodeShareTokenRejectsMalformed(t *testing.T) {
	signer := NewShareSigner("share-secret", time.Hour)
	outOfRange, err := signer.Encode(SharePayload{Score: 140, Summary: "x", Timestamp: time.Now()})
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":         "",
		"not a jwt":     "!!!",
		"bare base64":   "eyJzY29yZSI6MTAwfQ",
		"missing parts": "a.b",
		"score range":   outOfRange,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Decode(tok)
			assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestDecodeShareTokenRejectsForgeries(t *testing.T) {
	signer := NewShareSigner("share-secret", time.Hour)
	genuine, err := signer.Encode(SharePayload{Score: 40, Summary: Summary(40, time.Now()), Timestamp: time.Now()})
	require.NoError(t, err)

	// Unsigned JSON in the legacy base64 shape.
	legacy := base64.RawURLEncoding.EncodeToString([]byte(`{"score":100,"summary":"Wellness Score: 100%, Latest assessment from 2099-01-01","timestamp":"2099-01-01T00:00:00Z"}`))

	// Payload segment swapped for one claiming a perfect score.
	parts := strings.Split(genuine, ".")
	require.Len(t, parts, 3)
	forgedBody := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(
		`{"score":100,"summary":"Wellness Score: 100%%","timestamp":"2024-01-01T00:00:00Z","aud":["mindtrack-share"],"exp":%d}`,
		time.Now().Add(time.Hour).Unix())))
	tampered := parts[0] + "." + forgedBody + "." + parts[2]

	otherKey, err := NewShareSigner("someone-else", time.Hour).Encode(SharePayload{Score: 100, Summary: "x", Timestamp: time.Now()})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"score": 100, "summary": "x", "timestamp": "2024-01-01T00:00:00Z",
		"aud": []string{"mindtrack-share"}, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	accessLike, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user", "score": 100, "summary": "x", "timestamp": "2024-01-01T00:00:00Z",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("share-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"unsigned base64": legacy,
		"tampered body":   tampered,
		"wrong key":       otherKey,
		"alg none":        noneAlg,
		"no audience":     accessLike,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Decode(tok)
			assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestDecodeShareTokenRejectsExpired(t *testing.T) {
	signer := NewShareSigner("share-secret", time.Hour)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }
	tok, err := signer.Encode(SharePayload{Score: 70, Summary: Summary(70, issued), Timestamp: issued})
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(30 * time.Minute) }
	_, err = signer.Decode(tok)
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = signer.Decode(tok)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "got %v", err)
}
