package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() *Claims {
	now := time.Now()

	return &Claims{
		UserID:        42,
		UserName:      "jane",
		Email:         "jane@example.com",
		IssuedAt:      now.Unix(),
		ExpiresAt:     now.AddDate(0, 0, 30).Unix(),
		NextRefreshAt: now.Add(10 * time.Minute).Unix(),
	}
}

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{name: "default algorithm", secret: "secret", algorithm: ""},
		{name: "hs256", secret: "secret", algorithm: "HS256"},
		{name: "hs384", secret: "secret", algorithm: "HS384"},
		{name: "hs512", secret: "secret", algorithm: "HS512"},
		{name: "empty secret", secret: "", algorithm: "HS256", wantErr: true},
		{name: "rsa not supported", secret: "secret", algorithm: "RS256", wantErr: true},
		{name: "unknown algorithm", secret: "secret", algorithm: "XX999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.secret, tt.algorithm)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret", "")
	require.NoError(t, err)

	claims := testClaims()

	signed, err := codec.Encode(claims)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	decoded, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}

func TestCodecDecodeRejectsTamperedToken(t *testing.T) {
	codec, err := NewCodec("test-secret", "")
	require.NoError(t, err)

	signed, err := codec.Encode(testClaims())
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"

	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecDecodeRejectsWrongSecret(t *testing.T) {
	codec, err := NewCodec("test-secret", "")
	require.NoError(t, err)

	other, err := NewCodec("other-secret", "")
	require.NoError(t, err)

	signed, err := codec.Encode(testClaims())
	require.NoError(t, err)

	_, err = other.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecDecodeRejectsForeignAlgorithm(t *testing.T) {
	hs256, err := NewCodec("test-secret", "HS256")
	require.NoError(t, err)

	hs512, err := NewCodec("test-secret", "HS512")
	require.NoError(t, err)

	signed, err := hs256.Encode(testClaims())
	require.NoError(t, err)

	_, err = hs512.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecDecodeRejectsGarbage(t *testing.T) {
	codec, err := NewCodec("test-secret", "")
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err = codec.Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestCodecDecodeDoesNotValidateExpiry(t *testing.T) {
	codec, err := NewCodec("test-secret", "")
	require.NoError(t, err)

	// expired and stale: still decodes, interpretation is the manager's job
	claims := testClaims()
	claims.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	claims.NextRefreshAt = time.Now().Add(-2 * time.Hour).Unix()

	signed, err := codec.Encode(claims)
	require.NoError(t, err)

	decoded, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}
