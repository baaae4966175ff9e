package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "SWIFTPOS_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether SWIFTPOS_TEST_MODE=1 was set, in which case
// main returns before opening Postgres or Redis connections.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the environment after a test mutates it.
func RefreshTestMode() {
	detectTestMode()
}
