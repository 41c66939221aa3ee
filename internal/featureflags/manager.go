// Package featureflags evaluates runtime feature toggles for gradual rollouts.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type flagKind int

const (
	kindOff flagKind = iota
	kindOn
	kindPercent
)

type flag struct {
	kind    flagKind
	percent int
	raw     string
}

// Manager evaluates feature flags defined in a comma-separated key=value list,
// e.g. "live_feed_v2=on,webp_thumbs=25%,legacy_profile=off".
type Manager struct {
	flags map[string]flag
}

// NewManager parses a flag definition string. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]flag)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = normalize(key)
		value = normalize(value)
		if !ok || key == "" || value == "" {
			continue
		}
		out[key] = parseFlag(value)
	}

	return &Manager{flags: out}
}

func parseFlag(value string) flag {
	f := flag{raw: value}
	switch value {
	case "on", "true", "1":
		f.kind = kindOn
		return f
	case "off", "false", "0":
		return f
	}

	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		if pct, err := strconv.Atoi(pctRaw); err == nil && pct > 0 {
			if pct >= 100 {
				f.kind = kindOn
			} else {
				f.kind = kindPercent
				f.percent = pct
			}
		}
	}
	return f
}

// Enabled reports whether a flag is on for the given user. Percentage rollouts
// bucket users deterministically, so a user keeps the same answer across
// requests and restarts.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	f, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch f.kind {
	case kindOn:
		return true
	case kindPercent:
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < f.percent
	default:
		return false
	}
}

// Raw returns the configured flag values as written.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, f := range m.flags {
		out[k] = f.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
