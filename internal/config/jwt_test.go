package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_Disabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-0123")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "content-engine")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key-0123", cfg.Secret)
	assert.Equal(t, "content-engine", cfg.Issuer)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantErr    string
	}{
		{"short secret", "short", "24", "at least 16 characters"},
		{"non-numeric expiration", "test-secret-key-0123", "abc", "invalid JWT_EXPIRATION_HOURS"},
		{"zero expiration", "test-secret-key-0123", "0", "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
