package registry

import (
	"fmt"
	"strings"
)

// Outcome classifies how a resolution concluded.
type Outcome uint8

const (
	// OutcomeNone means no registered language matched, even after fallback.
	OutcomeNone Outcome = iota
	// OutcomeExact means the tag hit a canonical identifier or alias directly.
	OutcomeExact
	// OutcomeFallback means the tag matched only after stripping subtags.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExact:
		return "exact"
	case OutcomeFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Match is the result of resolving one input tag. For OutcomeNone, Entry is
// nil and Matched is empty. Input always carries the normalized requested
// tag so callers can report what was asked for.
type Match struct {
	Outcome Outcome
	Entry   *Entry
	Input   string
	Matched string
}

// Resolver is a fallback-aware index over a Registry snapshot. It holds
// plain maps built once at construction and never mutated, so Resolve is
// safe to call from any number of goroutines.
type Resolver struct {
	exact     map[string]*Entry
	canonical map[string]*Entry
}

// NewResolver builds the lookup index for reg.
func NewResolver(reg *Registry) *Resolver {
	r := &Resolver{
		exact:     make(map[string]*Entry, reg.Len()*2),
		canonical: make(map[string]*Entry, reg.Len()),
	}
	for _, entry := range reg.Entries() {
		for _, alias := range entry.Aliases {
			r.exact[alias] = entry
		}
	}
	// Canonical identifiers win over any alias that normalizes to the same
	// key, keeping resolution deterministic even if the loader invariant is
	// ever relaxed.
	for _, entry := range reg.Entries() {
		r.exact[entry.Tag] = entry
		r.canonical[entry.Tag] = entry
	}
	return r
}

// Resolve maps an input tag to the best registered entry. Exact matches
// consult canonical tags and aliases; fallback progressively strips the
// rightmost subtag and retries against canonical tags only. Inputs that do
// not normalize to a valid tag resolve to OutcomeNone.
func (r *Resolver) Resolve(input string) Match {
	tag, err := NormalizeTag(input)
	if err != nil {
		return Match{Outcome: OutcomeNone, Input: strings.TrimSpace(input)}
	}

	if entry, ok := r.exact[tag]; ok {
		return Match{Outcome: OutcomeExact, Entry: entry, Input: tag, Matched: tag}
	}

	remaining := tag
	for {
		idx := strings.LastIndexByte(remaining, '-')
		if idx < 0 {
			return Match{Outcome: OutcomeNone, Input: tag}
		}
		remaining = remaining[:idx]
		if entry, ok := r.canonical[remaining]; ok {
			return Match{Outcome: OutcomeFallback, Entry: entry, Input: tag, Matched: remaining}
		}
	}
}

// NormalizeTag canonicalizes a raw tag for lookup: surrounding whitespace is
// trimmed, ASCII letters are lowered, and underscores (POSIX-style locale
// separators) are treated as hyphens. The result must be non-empty and match
// [a-z0-9]+(-[a-z0-9]+)*; anything else is rejected with ErrInvalidTag.
func NormalizeTag(input string) (string, error) {
	tag := strings.TrimSpace(input)
	if tag == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}

	var b strings.Builder
	b.Grow(len(tag))
	lastHyphen := true // leading separator is invalid
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		case c == '_':
			c = '-'
		}
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastHyphen = false
		case c == '-':
			if lastHyphen {
				return "", fmt.Errorf("%w: %q", ErrInvalidTag, input)
			}
			lastHyphen = true
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidTag, input)
		}
		b.WriteByte(c)
	}
	if lastHyphen {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, input)
	}
	return b.String(), nil
}
