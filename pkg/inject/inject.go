/*
Copyright 2025 The firecfg Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package inject merges secrets and registry-cache metadata into a
// product's static configuration and writes the result to the runtime
// config path its service reads. It runs once per boot, before the
// service starts.
package inject

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/config"
)

// Options configures a single injection run.
type Options struct {
	Product product.Name

	// ConfigPath overrides the product's static config path.
	ConfigPath string

	// OutputPath overrides the product's runtime config path.
	OutputPath string
}

// Run loads the product's base config, injects credentials and pool
// metadata, and atomically writes the runtime config.
func Run(log *zap.SugaredLogger, env Environment, opts Options) error {
	prod, err := product.Get(opts.Product)
	if err != nil {
		return err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = prod.ConfigPath
	}
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = prod.RuntimeConfigPath
	}

	doc, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := injectCredentials(log, doc, env, prod.Name); err != nil {
		return err
	}

	if prod.ManagesPools {
		if err := injectPoolMetadata(log, doc, env, prod); err != nil {
			return err
		}
	}

	out, err := config.MarshalLiteral(doc)
	if err != nil {
		return err
	}

	if err := config.WriteFileAtomic(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	log.Infof("Config written to %s", outputPath)
	return nil
}
