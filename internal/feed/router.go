package feed

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/notice"
)

// Router applies config rules to outgoing notices by matching their source
// against doublestar globs. The first matching rule wins. A nil Router
// passes everything through unchanged.
type Router struct {
	rules []config.Rule
}

// NewRouter validates every pattern up front.
func NewRouter(rules []config.Rule) (*Router, error) {
	for i, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return nil, fmt.Errorf("rules[%d]: invalid glob %q", i, r.Pattern)
		}
	}
	return &Router{rules: rules}, nil
}

// Route returns the rewritten options and false when the notice should be
// dropped.
func (r *Router) Route(o notice.Options) (notice.Options, bool) {
	if r == nil {
		return o, true
	}

	for _, rule := range r.rules {
		// Patterns were validated in NewRouter so Match cannot fail.
		if ok, _ := doublestar.Match(rule.Pattern, o.Source); !ok {
			continue
		}

		if rule.Drop {
			return o, false
		}
		if rule.Type != "" {
			o.Kind = rule.Type
		}
		if rule.Persistent != nil {
			o.Persistent = *rule.Persistent
		}
		if rule.Duration > 0 {
			o.Duration = rule.Duration
		}
		return o, true
	}

	return o, true
}
