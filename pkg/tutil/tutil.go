package tutil

import (
	"os"
	"strings"
	"testing"
)

// IsIntegrationTest is true when VMC_TEST=integration. Integration tests talk
// to a real database or bucket named by the usual VMC_* settings.
func IsIntegrationTest() bool {
	return strings.ToLower(os.Getenv("VMC_TEST")) == "integration"
}

func SkipUnlessIntegration(t *testing.T) {
	t.Helper()
	if !IsIntegrationTest() {
		t.Skip("set VMC_TEST=integration to run")
	}
}
