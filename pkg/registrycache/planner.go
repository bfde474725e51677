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

// Package registrycache plans the VM-side configuration for the Zot
// pull-through registry cache: per-registry containerd hosts.toml files,
// a BuildKit mirror configuration for Buildx, the Docker daemon mirror
// settings, and the boot commands that make the runtimes pick them up.
package registrycache

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thpham/firecfg/pkg/userdata/cloudinit"
)

const (
	// DefaultPort is the Zot listen port.
	DefaultPort = 5000

	containerdCertsDir = "/etc/containerd/certs.d"
	buildkitConfigPath = "/etc/buildkit/buildkitd.toml"
	dockerDaemonPath   = "/etc/docker/daemon.json"
)

// Planner renders the registry cache configuration for one VM.
type Planner struct {
	// Gateway is the host-side address VMs reach the cache on.
	Gateway string
	// Port is the cache listen port. Zero means DefaultPort.
	Port int
}

// Plan returns the files and boot commands wiring a VM to the cache. An
// unset gateway or an empty mirror set disables the feature: both yield
// nothing, and neither is an error.
func (p Planner) Plan(mirrors []Mirror) ([]cloudinit.File, []cloudinit.Command, error) {
	if p.Gateway == "" || len(mirrors) == 0 {
		return nil, nil, nil
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}

	files := make([]cloudinit.File, 0, len(mirrors)+2)
	for _, mirror := range mirrors {
		files = append(files, cloudinit.File{
			Path:    fmt.Sprintf("%s/%s/hosts.toml", containerdCertsDir, mirror.Name),
			Content: p.hostsToml(mirror),
		})
	}

	daemonJSON, err := p.dockerDaemonJSON()
	if err != nil {
		return nil, nil, err
	}

	files = append(files,
		cloudinit.File{Path: buildkitConfigPath, Content: p.buildkitConfig(mirrors)},
		cloudinit.File{Path: dockerDaemonPath, Content: daemonJSON},
	)

	return files, p.restartCommands(), nil
}

// hostsToml renders the containerd mirror configuration for one registry.
// docker.io images live at root paths in Zot (e.g. /library/alpine), so
// Docker Hub gets a single host block. Every other registry is namespaced
// under /v2/<name> and needs a second block with override_path.
func (p Planner) hostsToml(mirror Mirror) string {
	content := fmt.Sprintf(`server = "%s"

[host."http://%s:%d"]
  capabilities = ["pull", "resolve"]
  skip_verify = true`, mirror.Upstream, p.Gateway, p.Port)

	if mirror.Name != "docker.io" {
		content += fmt.Sprintf(`

[host."http://%s:%d/v2/%s"]
  capabilities = ["pull", "resolve"]
  override_path = true`, p.Gateway, p.Port, mirror.Name)
	}

	return content
}

// buildkitConfig renders the buildkitd.toml handed to Buildx builders.
// docker/setup-buildx-action containers do not inherit the host
// containerd configuration, so mirrors must be repeated here.
func (p Planner) buildkitConfig(mirrors []Mirror) string {
	lines := []string{
		"# BuildKit registry mirrors for docker/setup-buildx-action",
		"# Use with: docker buildx create --config /etc/buildkit/buildkitd.toml",
		"# Or set BUILDKIT_CONFIG=/etc/buildkit/buildkitd.toml",
	}

	for _, mirror := range mirrors {
		lines = append(lines,
			fmt.Sprintf("[registry.\"%s\"]", mirror.Name),
			fmt.Sprintf("  mirrors = [\"%s:%d\"]", p.Gateway, p.Port),
			"  http = true",
			"  insecure = true",
			"",
		)
	}

	return strings.Join(lines, "\n")
}

// dockerDaemonConfig is the subset of Docker's daemon.json the cache
// needs. Field order is the emission order. Docker only honors mirrors
// for Docker Hub; the other registries are covered by containerd and
// BuildKit.
type dockerDaemonConfig struct {
	RegistryMirrors    []string `json:"registry-mirrors"`
	InsecureRegistries []string `json:"insecure-registries"`
}

func (p Planner) dockerDaemonJSON() (string, error) {
	cfg := dockerDaemonConfig{
		RegistryMirrors:    []string{fmt.Sprintf("http://%s:%d", p.Gateway, p.Port)},
		InsecureRegistries: []string{fmt.Sprintf("%s:%d", p.Gateway, p.Port)},
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render docker daemon.json: %w", err)
	}

	return string(raw), nil
}

const buildxCreateScript = `if command -v docker &> /dev/null && [ -f /etc/buildkit/buildkitd.toml ]; then
  docker buildx create --name zot-cache --driver docker-container \
    --config /etc/buildkit/buildkitd.toml --use 2>/dev/null || true
fi`

// restartCommands returns the boot commands reloading the container
// runtimes after the mirror files are written. Restarts are best effort:
// a VM without Docker must still boot.
func (p Planner) restartCommands() []cloudinit.Command {
	return []cloudinit.Command{
		{Comment: "Ensure containerd picks up the new registry mirrors", Cmd: "mkdir -p " + containerdCertsDir},
		{Cmd: "mkdir -p /etc/buildkit"},
		{Cmd: "systemctl restart containerd || true"},
		{Comment: "Restart Docker daemon to pick up registry mirror config", Cmd: "systemctl restart docker || true"},
		{Comment: "Create a pre-configured Buildx builder that uses our registry mirrors", Cmd: buildxCreateScript},
	}
}
