package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("10:00")
	require.NoError(t, err)
	assert.Equal(t, 10, h)
	assert.Equal(t, 0, m)

	h, m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, bad := range []string{"", "10", "10:00:00", "24:00", "10:60", "-1:30", "aa:bb"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func validTestConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{Username: "pilot", Password: "secret"},
		Schedule:  ScheduleConfig{Times: []string{"10:00", "16:00", "20:00"}, Timezone: "UTC"},
	}
}

func TestValidateConfigAcceptsRealCredentials(t *testing.T) {
	assert.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRejectsPlaceholders(t *testing.T) {
	cfg := validTestConfig()
	cfg.Instagram.Username = placeholderUsername
	assert.Error(t, validateConfig(cfg))

	cfg = validTestConfig()
	cfg.Instagram.Password = placeholderPassword
	assert.Error(t, validateConfig(cfg))

	cfg = validTestConfig()
	cfg.Instagram.Username = ""
	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfigRequiresScheduleTimes(t *testing.T) {
	cfg := validTestConfig()
	cfg.Schedule.Times = nil
	assert.Error(t, validateConfig(cfg))

	cfg = validTestConfig()
	cfg.Schedule.Times = []string{"10:00", "banana"}
	assert.Error(t, validateConfig(cfg))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"10:00", "16:00", "20:00"}, splitAndTrim("10:00, 16:00 ,20:00"))
	assert.Equal(t, []string{"10:00"}, splitAndTrim("10:00"))
}
