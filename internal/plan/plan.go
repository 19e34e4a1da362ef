package plan

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Plan is the unified, format-agnostic model of a sweep plan.
type Plan struct {
	Settings Settings
	Services []*Service
}

// Settings holds run-level values declared in a plan. Zero values mean the
// plan left them unset and the application's own defaults apply.
type Settings struct {
	WaitTimeout time.Duration
	Workers     int
}

// Service is one sweep participant with its declared ordering constraints.
// Edge direction is uniform: the service finishes before every entry of
// Before may start, and starts only after every entry of After has finished.
type Service struct {
	Name    string
	Before  []string
	After   []string
	filters map[string]cty.Value
}

// Filters returns the service's filter attributes converted to strings.
// Values that cannot convert to a string (e.g. objects) are an error.
func (s *Service) Filters() (map[string]string, error) {
	if len(s.filters) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(s.filters))
	for name, val := range s.filters {
		converted, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("filter %q of service %q is not a string-convertible value: %w", name, s.Name, err)
		}
		out[name] = converted.AsString()
	}
	return out, nil
}

// Service returns the named service, or nil if the plan does not declare it.
func (p *Plan) Service(name string) *Service {
	for _, s := range p.Services {
		if s.Name == name {
			return s
		}
	}
	return nil
}
