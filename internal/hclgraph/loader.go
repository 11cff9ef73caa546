package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridlevels/internal/ctxlog"
	"github.com/vk/gridlevels/internal/fsutil"
)

// Loader reads item blocks from .hcl files.
type Loader struct{}

// NewLoader creates a new HCL grid loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top level of a grid file. Blocks other than `item`
// are left in Remain and ignored.
type fileRoot struct {
	Items  []*itemBlock `hcl:"item,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type itemBlock struct {
	Name      string         `hcl:"name,label"`
	DependsOn hcl.Expression `hcl:"depends_on,optional"`
}

// Load parses every grid file found under paths and returns the declared
// items in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*Item, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL grid loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var items []*Item
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Items {
			deps, diags := decodeDependsOn(block.DependsOn)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode depends_on of item %q in %s: %w", block.Name, file, diags)
			}
			logger.Debug("Loaded item.", "item", block.Name, "depends_on", deps, "file", file)
			items = append(items, &Item{Name: block.Name, DependsOn: deps, File: file})
		}
	}

	logger.Debug("HCL grid loading complete.", "files", len(files), "items", len(items))
	return items, nil
}
