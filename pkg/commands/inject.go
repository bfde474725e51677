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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/inject"
)

func newInjectCommand() *cobra.Command {
	var (
		opts        inject.Options
		productName string
	)

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject secrets and registry-cache metadata into a product config",
		Long: `Inject reads a product's static configuration, merges in the secrets
and registry-cache settings passed via the environment, and writes the
runtime configuration its service reads. It is run by the product's
config service once per boot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			opts.Product = product.Name(productName)
			return inject.Run(log, inject.FromOS(log), opts)
		},
	}

	cmd.Flags().StringVar(&productName, "product", "", fmt.Sprintf("Product to generate configuration for, one of %v", product.Names()))
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Base config path (defaults to the product's /etc config)")
	cmd.Flags().StringVar(&opts.OutputPath, "output", "", "Runtime config path (defaults to the product's /run config)")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
