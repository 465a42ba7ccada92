package sources

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/codeready-toolchain/pulsefeed/pkg/slug"
)

// DeriveHostContext picks the host's display name with the precedence
// spec.md §4.1 requires (declared organizer, then source label, then a
// slug of the source id, or the source id itself when it is too short to
// slugify) and derives a deterministic seed from it. Two
// events sharing an organizer (or, absent one, a source label) on the same
// source always yield the same seed, independent of sourceEventId.
func DeriveHostContext(organizer, sourceLabel, sourceID string) HostContext {
	name := strings.TrimSpace(organizer)
	if name == "" {
		name = strings.TrimSpace(sourceLabel)
	}
	if name == "" {
		name = slug.Slugify(sourceID)
	}
	if name == "" {
		name = sourceID
	}

	return HostContext{
		HostIDSeed: hostIDSeed(name, sourceID),
		HostName:   name,
		Organizer:  organizer,
	}
}

// hostIDSeed hashes the resolved host name together with the source id so
// that two distinct sources never collide even if they share an organizer
// name, while remaining independent of any single event's identity.
func hostIDSeed(name, sourceID string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name) + "|" + sourceID))
	return hex.EncodeToString(sum[:])[:12]
}
