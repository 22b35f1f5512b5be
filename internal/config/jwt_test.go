package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setJWTEnv(t *testing.T, secret, expiration string) {
	t.Helper()
	t.Setenv("SECRET_KEY", "")
	t.Setenv("SESSION_EXPIRY_HOURS", "")
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("JWT_EXPIRATION_HOURS", expiration)
}

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	setJWTEnv(t, "test-secret-key-0123", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-0123", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, "resume-builder", cfg.Issuer)
}

func TestNewJWTConfig_Expiration(t *testing.T) {
	tests := []struct {
		name       string
		expiration string
		wantHours  int
		wantErr    bool
	}{
		{name: "custom", expiration: "48", wantHours: 48},
		{name: "one hour", expiration: "1", wantHours: 1},
		{name: "zero", expiration: "0", wantErr: true},
		{name: "negative", expiration: "-3", wantErr: true},
		{name: "not a number", expiration: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setJWTEnv(t, "test-secret-key-0123", tt.expiration)
			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}

func TestNewJWTConfig_Fallbacks(t *testing.T) {
	setJWTEnv(t, "", "")
	t.Setenv("SECRET_KEY", "legacy-secret-key-value")
	t.Setenv("SESSION_EXPIRY_HOURS", "8")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-secret-key-value", cfg.Secret)
	assert.Equal(t, 8, cfg.ExpirationHours)
}

func TestNewJWTConfig_SecretRules(t *testing.T) {
	setJWTEnv(t, "", "")
	_, err := NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	setJWTEnv(t, "short", "")
	_, err = NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 characters")
}
