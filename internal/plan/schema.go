package plan

import "github.com/hashicorp/hcl/v2"

// fileRoot is the HCL shape of a single plan file. Any combination of
// blocks may appear in any file; files are merged at load time.
type fileRoot struct {
	Settings *settingsBlock  `hcl:"settings,block"`
	Services []*serviceBlock `hcl:"service,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// settingsBlock carries run-level knobs. All attributes are optional;
// unset values defer to the embedding application's configuration.
type settingsBlock struct {
	WaitTimeoutSec *int `hcl:"wait_timeout,optional"`
	Workers        *int `hcl:"workers,optional"`
}

// serviceBlock declares one service and its ordering constraints.
type serviceBlock struct {
	Name    string        `hcl:"name,label"`
	Before  []string      `hcl:"before,optional"`
	After   []string      `hcl:"after,optional"`
	Filters *filtersBlock `hcl:"filters,block"`
}

// filtersBlock accepts arbitrary attributes; they are evaluated into
// cty values during translation.
type filtersBlock struct {
	Remain hcl.Body `hcl:",remain"`
}
