package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds a three-segment credential whose payload carries the given
// claims. Header and signature are opaque filler, which is all the decoder
// should ever need from them.
func makeToken(t *testing.T, claims IdentityClaims) string {
	t.Helper()

	raw, err := json.Marshal(claims)
	require.NoError(t, err, "Failed to marshal claims")

	payload := base64.RawURLEncoding.EncodeToString(raw)
	return "eyJhbGciOiJIUzI1NiJ9." + payload + ".c2lnbmF0dXJl"
}

func TestDecodeToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		want := IdentityClaims{
			UserID:   42,
			Username: "marcia",
			Email:    "marcia@smartmart.local",
			Role:     RoleAdmin,
		}

		got, err := DecodeToken(makeToken(t, want))
		require.NoError(t, err, "Failed to decode token")
		assert.Equal(t, &want, got)
	})

	t.Run("ViewerRole", func(t *testing.T) {
		got, err := DecodeToken(makeToken(t, IdentityClaims{UserID: 7, Username: "joao", Role: RoleViewer}))
		require.NoError(t, err)
		assert.Equal(t, RoleViewer, got.Role)
	})

	t.Run("URLSafeAlphabet", func(t *testing.T) {
		// Runs of '?' (0x3F) and '~' (0x7E) guarantee the encoded payload
		// contains '_' and '-', the two characters that differ between the
		// standard and URL-safe alphabets.
		claims := IdentityClaims{
			UserID:   999999999,
			Username: "?????~~~~~",
			Email:    "~~~~~?????@smartmart.local",
			Role:     RoleViewer,
		}

		got, err := DecodeToken(makeToken(t, claims))
		require.NoError(t, err, "URL-safe payload should decode")
		assert.Equal(t, claims.Username, got.Username)
		assert.Equal(t, claims.Email, got.Email)
	})

	t.Run("PaddingLengths", func(t *testing.T) {
		// Unpadded base64url payloads have length % 4 of 0, 2 or 3 depending
		// on the plaintext length; all three must decode.
		for _, username := range []string{"ab", "abc", "abcd", "abcde", "abcdef"} {
			claims := IdentityClaims{UserID: 1, Username: username, Role: RoleAdmin}
			got, err := DecodeToken(makeToken(t, claims))
			require.NoError(t, err, "Failed for username %q", username)
			assert.Equal(t, username, got.Username)
		}
	})

	t.Run("TwoSegments", func(t *testing.T) {
		_, err := DecodeToken("header.payload")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("FourSegments", func(t *testing.T) {
		token := makeToken(t, IdentityClaims{UserID: 1}) + ".extra"
		_, err := DecodeToken(token)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("EmptyString", func(t *testing.T) {
		_, err := DecodeToken("")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("PayloadLengthOneMod4", func(t *testing.T) {
		// A payload of length 1 pads to "X===", which no base64 decoder
		// accepts. Must fail cleanly, not panic.
		_, err := DecodeToken("header.A.signature")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("PayloadNotBase64", func(t *testing.T) {
		_, err := DecodeToken("header.!!!!.signature")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("PayloadNotJSON", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		_, err := DecodeToken("header." + payload + ".signature")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("UnknownFieldsIgnored", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString(
			[]byte(`{"user_id":5,"username":"ana","role":"viewer","iat":1700000000,"exp":1700003600}`))
		got, err := DecodeToken("header." + payload + ".signature")
		require.NoError(t, err, "Extra JWT fields should not break decoding")
		assert.Equal(t, int64(5), got.UserID)
		assert.Equal(t, "ana", got.Username)
	})
}
