package mock

import (
	"sync"

	"github.com/alicebob/miniredis/v2"
)

var redisOnce sync.Once
var redisServer *miniredis.Miniredis

// NewRedis starts an in-process redis server on first use. The rate limiter
// in the test server points at it.
func NewRedis() *miniredis.Miniredis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic("failed to start miniredis: " + err.Error())
		}
		redisServer = server
	})
	return redisServer
}

// ClearRedis flushes all keys between scenarios.
func ClearRedis() {
	if redisServer != nil {
		redisServer.FlushAll()
	}
}
