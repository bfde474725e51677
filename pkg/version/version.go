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

// Package version reports how the running binary was built, based on
// the metadata the Go toolchain embeds at link time. Binaries built
// from a tagged module version report that version; binaries built
// from a checkout report the VCS revision instead.
package version

import (
	"runtime/debug"
)

// ReadBuildInfo matches debug.ReadBuildInfo so tests can substitute
// synthetic build metadata.
type ReadBuildInfo func() (*debug.BuildInfo, bool)

// Info describes the running binary.
type Info struct {
	Version  string // main module version, empty for (devel) builds
	Revision string // VCS commit hash
	BuiltAt  string // VCS commit timestamp
	Dirty    bool   // uncommitted changes at build time
}

type Option func(*collector)

type collector struct {
	read ReadBuildInfo
}

// WithReadBuildInfo overrides the build info source.
func WithReadBuildInfo(f ReadBuildInfo) Option {
	return func(c *collector) {
		c.read = f
	}
}

// Get assembles Info from the metadata embedded in the binary.
func Get(opts ...Option) Info {
	c := collector{read: debug.ReadBuildInfo}
	for _, opt := range opts {
		opt(&c)
	}

	info := Info{
		Revision: "unknown",
		BuiltAt:  "unknown",
	}

	bi, ok := c.read()
	if !ok {
		return info
	}

	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.BuiltAt = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}

	return info
}

// String returns the most specific version identifier available.
func (i Info) String() string {
	if i.Version != "" {
		return i.Version
	}

	if i.Revision == "unknown" {
		return "dev"
	}

	if i.Dirty {
		return i.Revision + "-dirty"
	}

	return i.Revision
}
