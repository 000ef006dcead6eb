package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "interviewhub", cfg.DatabaseName)
	assert.Equal(t, "usd", cfg.PlatformCurrency)
	assert.Equal(t, 10*time.Minute, cfg.SummaryCacheTTL)
	assert.Equal(t, time.Hour, cfg.ReminderLeadTime)
	assert.Equal(t, 30*time.Minute, cfg.PaymentWindow)
}

func TestFirebaseCredentialsPath(t *testing.T) {
	AppConfig.FirebaseCredentialsFile = "from-config.json"

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	assert.Equal(t, "from-config.json", FirebaseCredentialsPath())

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	assert.Equal(t, "/secrets/sa.json", FirebaseCredentialsPath())
}
