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
	"github.com/spf13/cobra"

	"github.com/thpham/firecfg/pkg/registrycache"
	"github.com/thpham/firecfg/pkg/render"
)

func newRenderCommand() *cobra.Command {
	var (
		opts    render.Options
		mirrors registrycache.MirrorFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a complete fireactions config from the environment",
		Long: `Render builds a full fireactions configuration from environment
variables alone. Cloud images use it instead of inject: they carry no
operator-maintained base config, so pools come from the POOLS JSON and
credentials from GITHUB_APP_ID and GITHUB_PRIVATE_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			opts.Mirrors = mirrors.Mirrors
			return render.Run(log, render.FromOS(log), opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputPath, "output", "", "Config path (defaults to /run/fireactions/config.yaml)")
	cmd.Flags().Var(&mirrors, "mirror", "Registry mirror as name[=url], repeatable; overrides ZOT_MIRRORS")

	return cmd
}
