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

package product

import (
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		p, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if p.Name != name {
			t.Errorf("Get(%q) returned record for %q", name, p.Name)
		}
		if p.ConfigPath == "" || p.RuntimeConfigPath == "" {
			t.Errorf("product %q has empty config paths", name)
		}
	}

	if _, err := Get("firebolt"); err == nil {
		t.Error("expected error for unknown product")
	}
}

func TestInstanceID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		product  Name
		pool     string
		expected string
	}{
		{product: Fireactions, pool: "default", expected: "i-fireactions-default"},
		{product: Fireactions, pool: "large", expected: "i-fireactions-large"},
		{product: Fireglab, pool: "default", expected: "i-fireglab-default"},
		{product: Fireteact, pool: "ci", expected: "i-fireteact-ci"},
	}

	for _, test := range tests {
		p, err := Get(test.product)
		if err != nil {
			t.Fatalf("Get(%q): %v", test.product, err)
		}
		if id := p.InstanceID(test.pool); id != test.expected {
			t.Errorf("InstanceID(%q) = %q, expected %q", test.pool, id, test.expected)
		}
	}
}

func TestPoolOwnership(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  Name
		pools bool
	}{
		{Fireactions, true},
		{Fireglab, true},
		{Fireteact, false},
	} {
		p, err := Get(tc.name)
		if err != nil {
			t.Fatalf("Get(%q): %v", tc.name, err)
		}
		if p.ManagesPools != tc.pools {
			t.Errorf("%s: ManagesPools = %v, expected %v", tc.name, p.ManagesPools, tc.pools)
		}
	}
}
