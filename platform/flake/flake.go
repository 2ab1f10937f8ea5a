package flake

import (
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

var (
	mu     sync.Mutex
	flakes = map[string]*sonyflake.Sonyflake{}
)

// NextID returns the next safe to use ID for the given namespace. Callers
// may race on the first use of a namespace, so access is serialised.
func NextID(namespace string) (uint64, error) {
	mu.Lock()
	defer mu.Unlock()

	f, ok := flakes[namespace]
	if !ok {
		var s sonyflake.Settings
		s.StartTime = time.Date(2021, 4, 17, 12, 0, 0, 0, time.UTC)

		var err error

		f, err = sonyflake.New(s)
		if err != nil {
			return 0, err
		}

		flakes[namespace] = f
	}

	return f.NextID()
}
