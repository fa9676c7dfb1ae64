package device

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Service derives a coarse device fingerprint from the User-Agent so that
// sessions and audit events can be correlated to a device class without
// storing the raw header.
type Service struct {
	enabled bool
}

func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

// ComputeFingerprint hashes the browser family, major version, OS and form
// factor. IP addresses are too volatile to take part.
func (s *Service) ComputeFingerprint(userAgentString string) string {
	if !s.enabled || userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)
	browser, version := ua.Browser()

	majorVersion := "unknown"
	if version != "" {
		parts := strings.Split(version, ".")
		if len(parts) > 0 && parts[0] != "" {
			majorVersion = parts[0]
		}
	}

	os := ua.OS()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	os = strings.ToLower(strings.TrimSpace(os))
	if os == "" {
		os = "unknown"
	}

	data := fmt.Sprintf("%s|%s|%s|%s", browser, majorVersion, os, platform)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// CompareFingerprints compares stored and current device fingerprints using
// constant-time comparison. Returns (matched, driftDetected); drift means
// both fingerprints exist but differ.
func (s *Service) CompareFingerprints(stored, current string) (matched bool, driftDetected bool) {
	if !s.enabled {
		return true, false
	}
	if stored == "" || current == "" {
		return true, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(current)) == 1 {
		return true, false
	}
	return false, true
}
