package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cloudsweep/internal/ctxlog"
	"github.com/vk/cloudsweep/internal/fsutil"
)

// Loader parses sweep plans from HCL files.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file reachable from the given paths (files or
// directories) and merges their blocks into a single Plan. A service name
// may be declared only once across all files; the settings block may appear
// at most once.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Plan loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found under %v", paths)
	}
	logger.Debug("Discovered plan files.", "count", len(files))

	parser := hclparse.NewParser()
	merged := &Plan{}
	seen := make(map[string]string) // service name -> file that declared it
	settingsFile := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse plan file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode plan file %s: %w", file, diags)
		}

		if root.Settings != nil {
			if settingsFile != "" {
				return nil, fmt.Errorf("duplicate settings block in %s (already declared in %s)", file, settingsFile)
			}
			settingsFile = file
			merged.Settings = translateSettings(root.Settings)
		}

		for _, block := range root.Services {
			if block.Name == "" {
				return nil, fmt.Errorf("service block with empty name in %s", file)
			}
			if prev, dup := seen[block.Name]; dup {
				return nil, fmt.Errorf("service %q declared in both %s and %s", block.Name, prev, file)
			}
			seen[block.Name] = file

			svc, err := translateService(block)
			if err != nil {
				return nil, fmt.Errorf("invalid service %q in %s: %w", block.Name, file, err)
			}
			merged.Services = append(merged.Services, svc)
		}
	}

	logger.Debug("Plan loaded.", "services", len(merged.Services))
	return merged, nil
}

// translateSettings converts the HCL settings block into the agnostic model.
func translateSettings(block *settingsBlock) Settings {
	var s Settings
	if block.WaitTimeoutSec != nil {
		s.WaitTimeout = time.Duration(*block.WaitTimeoutSec) * time.Second
	}
	if block.Workers != nil {
		s.Workers = *block.Workers
	}
	return s
}

// translateService converts an HCL service block, evaluating any filter
// attributes into cty values.
func translateService(block *serviceBlock) (*Service, error) {
	svc := &Service{
		Name:   block.Name,
		Before: block.Before,
		After:  block.After,
	}

	if block.Filters != nil {
		attrs, diags := block.Filters.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid filters block: %w", diags)
		}
		filters := make(map[string]cty.Value, len(attrs))
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("filter %q does not evaluate to a constant: %w", name, diags)
			}
			filters[name] = val
		}
		svc.filters = filters
	}

	return svc, nil
}
