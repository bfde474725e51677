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

package registrycache

import (
	"fmt"
	"strings"
)

// MirrorFlags collects repeated --mirror name[=url] values in command
// line order. A bare name selects the default upstream; naming the same
// registry twice replaces the earlier upstream. It implements
// pflag.Value.
type MirrorFlags struct {
	Mirrors []Mirror
}

func (fl *MirrorFlags) Set(val string) error {
	name, url, found := strings.Cut(val, "=")
	if name == "" {
		return fmt.Errorf("mirror %q: registry name must not be empty", val)
	}
	if !found || url == "" {
		url = DefaultUpstream(name)
	}

	for i := range fl.Mirrors {
		if fl.Mirrors[i].Name == name {
			fl.Mirrors[i].Upstream = url
			return nil
		}
	}
	fl.Mirrors = append(fl.Mirrors, Mirror{Name: name, Upstream: url})

	return nil
}

func (fl *MirrorFlags) String() string {
	pairs := make([]string, 0, len(fl.Mirrors))
	for _, mirror := range fl.Mirrors {
		pairs = append(pairs, fmt.Sprintf("%s=%s", mirror.Name, mirror.Upstream))
	}

	return strings.Join(pairs, ",")
}

func (fl *MirrorFlags) Type() string {
	return "name[=url]"
}
