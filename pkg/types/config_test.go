package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"empty backend", Config{DataDir: "/tmp/board"}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "etcd"}, ErrBackendUnknown},
		{"file", Config{Backend: BackendFile, DataDir: "/tmp/board"}, nil},
		{"file without data dir", Config{Backend: BackendFile}, nil},
		{"sqlite", Config{Backend: BackendSQLite, DataDir: "/tmp/board"}, nil},
		{"redis needs a URL", Config{Backend: BackendRedis, RedisKey: "k"}, ErrRedisURLEmpty},
		{"redis URL", Config{Backend: BackendRedis, RedisURL: "redis://localhost:6379/0"}, nil},
		{"redis host and port", Config{Backend: BackendRedis, RedisURL: "localhost:6379"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigRedisKey(t *testing.T) {
	assert.Equal(t, DefaultRedisKey, Config{}.GetRedisKey())
	assert.Equal(t, "scratch", Config{RedisKey: "scratch"}.GetRedisKey())
}
