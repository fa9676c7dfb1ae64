// Package did carries small DID-string utilities used across the wallet.
// DID resolution and method-specific validation live in external collaborators;
// this package only knows about the textual shape of DID URLs.
package did

import (
	"regexp"
	"runtime/debug"
	"slices"
	"strings"

	dErrors "walletgate/pkg/domain-errors"
)

// DefaultSupportedMethods lists the DID methods the wallet accepts unless
// overridden through configuration.
var DefaultSupportedMethods = []string{"jolo", "elem"}

var (
	matrixParamsRe = regexp.MustCompile(`;[a-zA-Z0-9_.:%-]+=[a-zA-Z0-9_.:%-]*`)
	queryParamsRe  = regexp.MustCompile(`\?[^#]*`)
)

// Methods is an immutable allow-list of DID methods, injected at construction
// rather than read from process-global state.
type Methods struct {
	supported []string
}

// NewMethods builds an allow-list from the given methods, falling back to
// DefaultSupportedMethods when none are provided.
func NewMethods(supported []string) Methods {
	if len(supported) == 0 {
		supported = DefaultSupportedMethods
	}
	return Methods{supported: slices.Clone(supported)}
}

// Supported returns a copy of the allow-list.
func (m Methods) Supported() []string {
	return slices.Clone(m.supported)
}

// Validate returns an error when the method is not on the allow-list.
func (m Methods) Validate(method string) error {
	if slices.Contains(m.supported, method) {
		return nil
	}
	return dErrors.New(dErrors.CodeInvalidInput, "unsupported did method: "+method)
}

// MethodOf extracts the method segment from a DID string, or "" if the
// string is not DID-shaped.
func MethodOf(did string) string {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) < 3 || parts[0] != "did" {
		return ""
	}
	return parts[1]
}

// StripParams removes matrix and query parameters from a DID URL, leaving the
// bare DID (plus any fragment).
func StripParams(did string) string {
	did = matrixParamsRe.ReplaceAllString(did, "")
	return queryParamsRe.ReplaceAllString(did, "")
}

// SDKVersion reports the wallet module version from build info.
// Returns "devel" when the binary was built outside module mode.
func SDKVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}
	return info.Main.Version
}
