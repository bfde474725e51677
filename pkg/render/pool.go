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

package render

import "github.com/thpham/firecfg/pkg/config"

const (
	defaultRunnerImage = "ghcr.io/thpham/fireactions-images/ubuntu-24.04:latest"
	defaultKernelArgs  = "console=ttyS0 reboot=k panic=1 pci=off"
	firecrackerBinary  = "firecracker"
	kernelImagePath    = "/var/lib/fireactions/kernels/vmlinux"
	cniConfDir         = "/etc/cni/conf.d"
	defaultMemSizeMib  = 2048
	defaultVcpuCount   = 2
	defaultMaxRunners  = 10
	defaultMinRunners  = 1
)

// PoolSpec is the user-facing pool shape accepted in the POOLS environment
// variable. Counts are pointers so an explicit zero, for example
// minRunners: 0 for scale-to-zero pools, survives the transform.
type PoolSpec struct {
	Name        string          `json:"name"`
	MaxRunners  *int            `json:"maxRunners"`
	MinRunners  *int            `json:"minRunners"`
	Runner      RunnerSpec      `json:"runner"`
	Firecracker FirecrackerSpec `json:"firecracker"`
}

// RunnerSpec describes the CI runner of a PoolSpec.
type RunnerSpec struct {
	Name            string   `json:"name"`
	Image           string   `json:"image"`
	ImagePullPolicy string   `json:"imagePullPolicy"`
	Organization    *string  `json:"organization"`
	Labels          []string `json:"labels"`
	GroupID         int      `json:"groupId"`
}

// FirecrackerSpec holds the few VM knobs a pool may tune. Everything else
// about the VM launch is fixed by the image layout.
type FirecrackerSpec struct {
	KernelArgs string `json:"kernelArgs"`
	MemSizeMib *int   `json:"memSizeMib"`
	VcpuCount  *int   `json:"vcpuCount"`
}

// transformPool expands a PoolSpec into the full service pool config,
// filling in defaults and the image-defined paths.
func transformPool(spec PoolSpec) config.PoolConfig {
	pool := config.PoolConfig{
		Name:       stringOr(spec.Name, "default"),
		MaxRunners: intOr(spec.MaxRunners, defaultMaxRunners),
		MinRunners: intOr(spec.MinRunners, defaultMinRunners),
		Runner: config.RunnerConfig{
			Name:            stringOr(spec.Runner.Name, "runner"),
			Image:           stringOr(spec.Runner.Image, defaultRunnerImage),
			ImagePullPolicy: stringOr(spec.Runner.ImagePullPolicy, "IfNotPresent"),
			Organization:    spec.Runner.Organization,
			Labels:          spec.Runner.Labels,
			GroupID:         spec.Runner.GroupID,
		},
		Firecracker: config.FirecrackerConfig{
			BinaryPath:      firecrackerBinary,
			KernelImagePath: kernelImagePath,
			KernelArgs:      stringOr(spec.Firecracker.KernelArgs, defaultKernelArgs),
			CNIConfDir:      cniConfDir,
			CNIBinDirs:      []string{"/opt/cni/bin"},
			MachineConfig: config.MachineConfig{
				MemSizeMib: intOr(spec.Firecracker.MemSizeMib, defaultMemSizeMib),
				VcpuCount:  intOr(spec.Firecracker.VcpuCount, defaultVcpuCount),
			},
		},
	}

	// An explicit empty label list disables the default labels.
	if pool.Runner.Labels == nil {
		pool.Runner.Labels = []string{"self-hosted", "fireactions"}
	}
	return pool
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
