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

// Package product describes the fire* products firecfg generates
// configuration for. A product record carries the paths and metadata
// conventions that used to be hard-coded into each product's own
// generation script.
package product

import "fmt"

// Name identifies a supported product.
type Name string

const (
	// Fireactions runs GitHub Actions runners in Firecracker VMs.
	Fireactions Name = "fireactions"
	// Fireglab runs GitLab CI runners.
	Fireglab Name = "fireglab"
	// Fireteact runs Gitea Actions runners.
	Fireteact Name = "fireteact"
)

// Product is the set of conventions shared by all tooling for one product.
type Product struct {
	Name Name

	// ConfigPath is the static configuration shipped with the host image.
	ConfigPath string

	// RuntimeConfigPath is where the generated configuration is written.
	// The service reads this path, never ConfigPath, at runtime.
	RuntimeConfigPath string

	// MetadataPath is the MMDS path a VM queries for its runner identity,
	// relative to /latest/meta-data/.
	MetadataPath string

	// MetadataVar names the shell variable the hostname script reads the
	// MMDS response into.
	MetadataVar string

	// HeaderComment is the comment line under #cloud-config in generated
	// user-data.
	HeaderComment string

	// DNSComment annotates the resolv.conf override in runcmd.
	DNSComment string

	// ManagesPools reports whether the product configuration carries a
	// pools section that needs instance metadata and user-data.
	ManagesPools bool
}

// InstanceID returns the instance ID for a pool. The cloud-init EC2
// datasource only accepts IDs with the "i-" prefix.
func (p Product) InstanceID(pool string) string {
	return fmt.Sprintf("i-%s-%s", p.Name, pool)
}

var products = map[Name]Product{
	Fireactions: {
		Name:              Fireactions,
		ConfigPath:        "/etc/fireactions/config.yaml",
		RuntimeConfigPath: "/run/fireactions/config.yaml",
		MetadataPath:      "fireactions/runner_id",
		MetadataVar:       "RUNNER_ID",
		HeaderComment:     "Registry cache configuration - auto-injected by fireactions",
		DNSComment:        "Set DNS to use host gateway (centralized DNS via dnsmasq)",
		ManagesPools:      true,
	},
	Fireglab: {
		Name:              Fireglab,
		ConfigPath:        "/etc/fireglab/config.yaml",
		RuntimeConfigPath: "/run/fireglab/config.yaml",
		MetadataPath:      "fireglab/runner_name",
		MetadataVar:       "RUNNER_NAME",
		HeaderComment:     "Fireglab VM configuration - auto-injected by firecfg",
		DNSComment:        "Set DNS to use fireglab gateway (centralized DNS via dnsmasq)",
		ManagesPools:      true,
	},
	Fireteact: {
		Name:              Fireteact,
		ConfigPath:        "/etc/fireteact/config.yaml",
		RuntimeConfigPath: "/run/fireteact/config.yaml",
		MetadataPath:      "fireteact/runner_name",
		MetadataVar:       "RUNNER_NAME",
		HeaderComment:     "Fireteact VM configuration - auto-injected by firecfg",
		DNSComment:        "Set DNS to use host gateway (centralized DNS via dnsmasq)",
		ManagesPools:      false,
	},
}

// Get returns the product record for name.
func Get(name Name) (Product, error) {
	p, ok := products[name]
	if !ok {
		return Product{}, fmt.Errorf("unknown product %q", name)
	}
	return p, nil
}

// Names returns all supported product names, for CLI help and validation.
func Names() []Name {
	return []Name{Fireactions, Fireglab, Fireteact}
}
