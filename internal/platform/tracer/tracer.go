// Package tracer provides a lightweight tracing abstraction for the wallet.
//
// It defines an internal tracer interface that doesn't depend directly on
// OpenTelemetry APIs, so domain packages can emit distributed traces while
// remaining decoupled from the tracing implementation.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
// Spans track the execution of a single operation and can record errors and events.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to child operations.
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashPrincipal returns a truncated SHA-256 hash of a principal identifier for
// safe trace correlation without exposing the address itself.
func HashPrincipal(principal string) string {
	if principal == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(principal))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the wallet facade.
const (
	SpanSignUp            = "wallet.sign_up"
	SpanConfirmSignUp     = "wallet.confirm_sign_up"
	SpanSignIn            = "wallet.sign_in"
	SpanConfirmSignIn     = "wallet.confirm_sign_in"
	SpanSignOut           = "wallet.sign_out"
	SpanStoreSeed         = "wallet.store_encrypted_seed"
	SpanSaveCredentials   = "wallet.save_credentials"
	SpanGetCredentials    = "wallet.get_credentials"
	SpanDeleteCredential  = "wallet.delete_credential"
	SpanDeleteCredentials = "wallet.delete_all_credentials"
)

// Attribute keys used by the wallet facade.
const (
	AttrPrincipal   = "principal_hash"
	AttrFlow        = "flow"
	AttrFiltered    = "filtered"
	AttrRecordCount = "record_count"
)
