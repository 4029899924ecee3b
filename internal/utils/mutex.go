package utils

import "sync"

var mu sync.Mutex

// ExecuteWithMutex serializes fn with every other caller. GDAL dataset
// handles are not safe for concurrent use, so all godal access goes
// through here.
func ExecuteWithMutex(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
