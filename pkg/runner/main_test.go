package runner

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain uses goleak to verify the runner starts no goroutines of its own.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
