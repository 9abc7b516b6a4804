// Package identity derives the deduplication key a vote is recorded under.
//
// No single signal is trustworthy on its own: client fingerprints can be
// regenerated, many phones behind one NAT share an origin address, and agent
// strings are freely spoofable. The composite of all three raises the bar
// against casual repeat voting without pretending to be cryptographic
// identity.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mssola/useragent"

	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

// Key is the opaque deduplication key derived from client and transport
// signals. It is used only for uniqueness lookups in the vote log.
type Key string

// Resolver derives a Key from request material. It is an interface so the
// composition strategy can be strengthened later without touching the
// ledger's atomicity logic.
type Resolver interface {
	Resolve(userToken, fingerprint, originAddress, clientAgent string) (Key, error)
}

// CompositeResolver hashes fingerprint, origin address, and a normalized
// client agent into a single key. Pure function of its inputs.
type CompositeResolver struct{}

func NewResolver() *CompositeResolver {
	return &CompositeResolver{}
}

// Resolve derives the deduplication key. The fingerprint is mandatory; a
// request without it is rejected before any storage access.
func (r *CompositeResolver) Resolve(userToken, fingerprint, originAddress, clientAgent string) (Key, error) {
	_ = userToken // carried separately by the ledger; not part of the composite
	if fingerprint == "" {
		return "", domainerrors.New(domainerrors.CodeInvalidRequest, "fingerprint is required")
	}

	composite := fingerprint + "|" + originAddress + "|" + NormalizeAgent(clientAgent)
	sum := sha256.Sum256([]byte(composite))
	return Key(hex.EncodeToString(sum[:])), nil
}

// NormalizeAgent reduces a raw agent string to browser family, major
// version, and OS. Browsers bump full versions every few weeks; hashing the
// raw string would fork a voter's identity on every auto-update.
func NormalizeAgent(clientAgent string) string {
	if clientAgent == "" {
		return "unknown"
	}

	ua := useragent.New(clientAgent)
	name, version := ua.Browser()
	if name == "" {
		return strings.TrimSpace(clientAgent)
	}

	major := version
	if i := strings.Index(version, "."); i >= 0 {
		major = version[:i]
	}

	parts := []string{name}
	if major != "" {
		parts = append(parts, major)
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	return strings.Join(parts, " ")
}
