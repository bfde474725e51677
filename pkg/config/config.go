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

package config

// Config is a complete fireactions service configuration as rendered for
// cloud images, where no operator-maintained base config exists. Field
// order matches the order the service's own documentation lists the keys
// in, so generated files diff cleanly against hand-written ones.
type Config struct {
	BindAddress string        `yaml:"bind_address"`
	LogLevel    string        `yaml:"log_level"`
	Debug       bool          `yaml:"debug"`
	Metrics     MetricsConfig `yaml:"metrics"`
	GitHub      GitHubConfig  `yaml:"github"`
	Pools       []PoolConfig  `yaml:"pools"`
}

// MetricsConfig configures the Prometheus endpoint of the service.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// GitHubConfig carries the GitHub App credentials the service
// authenticates with.
type GitHubConfig struct {
	AppID         int64  `yaml:"app_id"`
	AppPrivateKey string `yaml:"app_private_key"`
}

// PoolConfig describes one VM pool.
type PoolConfig struct {
	Name        string            `yaml:"name"`
	MaxRunners  int               `yaml:"max_runners"`
	MinRunners  int               `yaml:"min_runners"`
	Runner      RunnerConfig      `yaml:"runner"`
	Firecracker FirecrackerConfig `yaml:"firecracker"`
}

// RunnerConfig describes the CI runner a pool hosts. Organization is a
// pointer: a pool without one must serialize as an explicit null, which
// the service reads as "registration at the app installation level".
type RunnerConfig struct {
	Name            string   `yaml:"name"`
	Image           string   `yaml:"image"`
	ImagePullPolicy string   `yaml:"image_pull_policy"`
	Organization    *string  `yaml:"organization"`
	Labels          []string `yaml:"labels"`
	GroupID         int      `yaml:"group_id,omitempty"`
}

// FirecrackerConfig describes how the pool's VMs are launched.
type FirecrackerConfig struct {
	BinaryPath      string        `yaml:"binary_path"`
	KernelImagePath string        `yaml:"kernel_image_path"`
	KernelArgs      string        `yaml:"kernel_args"`
	CNIConfDir      string        `yaml:"cni_conf_dir"`
	CNIBinDirs      []string      `yaml:"cni_bin_dirs"`
	MachineConfig   MachineConfig `yaml:"machine_config"`
	Metadata        *PoolMetadata `yaml:"metadata,omitempty"`
}

// MachineConfig sizes a pool's VMs.
type MachineConfig struct {
	MemSizeMib int `yaml:"mem_size_mib"`
	VcpuCount  int `yaml:"vcpu_count"`
}

// PoolMetadata is served to VMs over MMDS. The cloud-init EC2 datasource
// requires the instance-id key; user-data holds the generated cloud-init
// document.
type PoolMetadata struct {
	InstanceID string `yaml:"instance-id,omitempty"`
	UserData   string `yaml:"user-data,omitempty"`
}
