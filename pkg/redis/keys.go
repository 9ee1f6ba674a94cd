package redis

import "strings"

const defaultPrefix = "marketplace"

const (
	areaDocument = "doc"
	areaReplay   = "replay"
	areaThrottle = "throttle"
	areaLock     = "lock"
)

// Keys lays out the key space as <prefix>:<area>:<parts...>. Several deployments can share one
// redis database as long as their prefixes differ.
type Keys struct {
	prefix string
}

func NewKeys(prefix string) Keys {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return Keys{prefix: prefix}
}

// Document is the key of a persisted kv entry such as "ws:<session>/cart".
func (k Keys) Document(name string) string { return k.join(areaDocument, name) }

// Replay is the key of a stored idempotent response.
func (k Keys) Replay(scope, id string) string { return k.join(areaReplay, scope, id) }

// Throttle is the key of a fixed-window attempt counter.
func (k Keys) Throttle(scope string) string { return k.join(areaThrottle, scope) }

func (k Keys) Lock(name string) string { return k.join(areaLock, name) }

func (k Keys) join(area string, parts ...string) string {
	prefix := k.prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(area)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
