package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ITLEDGER_TEST_MODE") == "" {
			_ = os.Setenv("ITLEDGER_TEST_MODE", "1")
		}
	})
}
