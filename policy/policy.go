// Package policy provides a simple, optional per-effect approval layer
// that can be installed as an effect middleware.  It is deliberately
// decoupled from the rest of the runtime so that using it is entirely
// opt-in – runs that do not install the Policy keep the original "auto"
// behaviour.

package policy

import (
	"strings"
)

// Execution modes recognised by the runtime.
const (
	ModeAsk  = "ask"  // ask user before every effect
	ModeAuto = "auto" // execute automatically (default)
	ModeDeny = "deny" // block execution
)

// AskFunc is invoked when Mode==ask.  Returning true approves the effect,
// false rejects it.  Implementations MAY mutate the policy (for example,
// switching to ModeAuto after the first approval).
type AskFunc func(
	kind string, // effect kind, e.g. "take", "fork"
	payload interface{}, // the effect payload – may be nil
	p *Policy,
) bool

// Policy represents the approval / debugging settings for a runtime run.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList allow coarse filtering regardless of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy means "execute everything automatically" and is therefore
// the zero-cost default.
type Policy struct {
	Mode      string   // ask / auto / deny      (default = auto)
	AllowList []string // whitelist (empty => all)
	BlockList []string // blacklist
	Ask       AskFunc  // used only when Mode==ask
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// Decide reports whether an effect of the given kind may run under this
// policy.
func (p *Policy) Decide(kind string, payload interface{}) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(kind) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(kind, payload, p)
	default:
		return true
	}
}

// IsAllowed evaluates AllowList / BlockList.  Both lists match by exact
// string comparison (case-insensitive) of the effect kind.
func (p *Policy) IsAllowed(kind string) bool {
	if p == nil {
		return true
	}

	normalized := strings.ToLower(kind)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	// AllowList – if empty everything is allowed, otherwise only the
	// listed entries.
	if len(p.AllowList) == 0 {
		return true
	}

	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}

	return false
}
