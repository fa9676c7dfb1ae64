package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

func TestComputeFingerprintStable(t *testing.T) {
	svc := NewService(true)

	a := svc.ComputeFingerprint(chromeUA)
	b := svc.ComputeFingerprint(chromeUA)

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestComputeFingerprintDisabled(t *testing.T) {
	svc := NewService(false)
	assert.Empty(t, svc.ComputeFingerprint(chromeUA))
}

func TestCompareFingerprints(t *testing.T) {
	svc := NewService(true)

	a := svc.ComputeFingerprint(chromeUA)
	b := svc.ComputeFingerprint(firefoxUA)

	matched, drift := svc.CompareFingerprints(a, a)
	assert.True(t, matched)
	assert.False(t, drift)

	matched, drift = svc.CompareFingerprints(a, b)
	assert.False(t, matched)
	assert.True(t, drift)

	// Missing fingerprints never count as drift.
	matched, drift = svc.CompareFingerprints("", b)
	assert.True(t, matched)
	assert.False(t, drift)
}
