package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/fsutil"
	"github.com/vk/restflow/internal/schema"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL schema loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers .hcl files under the given paths, parses them and
// translates every resource block into the config model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{Resources: make(map[string]*config.Resource)}
	parser := hclparse.NewParser()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access schema path %s: %w", path, err)
		}

		filePaths := []string{path}
		if info.IsDir() {
			filePaths, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to walk schema directory %s: %w", path, err)
			}
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl schema files found in path", "path", path)
			continue
		}

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
			}

			var file schema.File
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode schema file %s: %w", filePath, diags)
			}

			for _, decl := range file.Resources {
				res, err := translateResource(decl)
				if err != nil {
					return nil, fmt.Errorf("invalid resource %q in %s: %w", decl.Name, filePath, err)
				}
				if _, exists := model.Resources[res.Name]; exists {
					logger.Warn("Duplicate resource definition found, it will be overwritten.", "resource", res.Name)
				}
				model.Resources[res.Name] = res
			}
			logger.Debug("Loaded schema definitions from HCL file", "file", filePath)
		}
	}

	logger.Info("Schema model loaded.", "resources", len(model.Resources))
	return model, nil
}
