package config_test

import (
	"Comodin/config"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	s := config.DefaultSettings()
	s.RedisURL = url

	rc, err := config.Connect_redis(s)
	require.NoError(t, err)
	assert.Equal(t, s.StateTTL, rc.TTL())
}

func TestConnect_redisBadURL(t *testing.T) {
	s := config.DefaultSettings()
	s.RedisURL = "ftp://nowhere"
	_, err := config.Connect_redis(s)
	assert.Error(t, err)
}
