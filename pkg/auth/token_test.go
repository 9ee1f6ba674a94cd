package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "marketplace", ExpirationMinutes: 30}
}

func vendorPayload() AccessTokenPayload {
	return AccessTokenPayload{UserID: "u-1", Role: enums.UserRoleVendor, SessionID: "session-1234"}
}

func TestSignerRoundTrip(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, signer.TTL())

	token, err := signer.Mint(time.Now(), vendorPayload())
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "session-1234", claims.SessionID)
	assert.Equal(t, enums.UserRoleVendor, claims.Role)
	assert.Equal(t, "marketplace", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))

	again, err := signer.Mint(time.Now(), vendorPayload())
	require.NoError(t, err)
	second, err := signer.Parse(again)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, second.ID)
}

func TestConfigHelpersMatchSigner(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now(), vendorPayload())
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "session-1234", claims.SessionID)

	_, err = ParseAccessToken(config.JWTConfig{}, token)
	assert.Error(t, err)
}

func TestParseClassifiesFailures(t *testing.T) {
	cfg := testConfig()
	signer, err := NewSigner(cfg)
	require.NoError(t, err)

	expired, err := signer.Mint(time.Now().Add(-2*time.Hour), vendorPayload())
	require.NoError(t, err)
	_, err = signer.Parse(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = signer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	valid, err := signer.Mint(time.Now(), vendorPayload())
	require.NoError(t, err)

	other := cfg
	other.Secret = "different"
	_, err = ParseAccessToken(other, valid)
	assert.ErrorIs(t, err, ErrTokenRejected)

	other = cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, valid)
	assert.ErrorIs(t, err, ErrTokenRejected)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{UserID: "u", SessionID: "s"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = signer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestParseToleratesClockSkew(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)

	ahead, err := signer.Mint(time.Now().Add(10*time.Second), vendorPayload())
	require.NoError(t, err)
	_, err = signer.Parse(ahead)
	assert.NoError(t, err)

	farAhead, err := signer.Mint(time.Now().Add(5*time.Minute), vendorPayload())
	require.NoError(t, err)
	_, err = signer.Parse(farAhead)
	assert.ErrorIs(t, err, ErrTokenRejected)
}

func TestMintValidatesInput(t *testing.T) {
	signer, err := NewSigner(testConfig())
	require.NoError(t, err)

	for name, payload := range map[string]AccessTokenPayload{
		"no user":    {Role: enums.UserRoleBuyer, SessionID: "s"},
		"no session": {UserID: "u", Role: enums.UserRoleBuyer},
		"bad role":   {UserID: "u", Role: "admin", SessionID: "s"},
	} {
		_, err := signer.Mint(time.Now(), payload)
		assert.Error(t, err, name)
	}

	for name, cfg := range map[string]config.JWTConfig{
		"no secret": {Issuer: "m", ExpirationMinutes: 1},
		"no issuer": {Secret: "s", ExpirationMinutes: 1},
		"no ttl":    {Secret: "s", Issuer: "m"},
	} {
		_, err := NewSigner(cfg)
		assert.Error(t, err, name)
	}
}
