package config

import (
	"errors"
	"time"
)

const (
	defaultRequestTimeout       = 30 * time.Second
	defaultTokenDuration        = time.Hour
	defaultSyncQueueSize        = 1024
	defaultSyncOperationTimeout = 10 * time.Second
	defaultCacheTTL             = 5 * time.Minute
)

var (
	errNoTokenSignKey = errors.New("token sign key is required")
)
