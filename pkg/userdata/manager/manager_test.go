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

package manager

import (
	"errors"
	"testing"

	"github.com/thpham/firecfg/pkg/apis/product"
)

func TestForProduct(t *testing.T) {
	t.Parallel()

	for _, name := range product.Names() {
		p, err := ForProduct(name)
		if err != nil {
			t.Fatalf("ForProduct(%q): %v", name, err)
		}
		if p == nil {
			t.Fatalf("ForProduct(%q) returned a nil provider", name)
		}
		if !Supports(name) {
			t.Errorf("Supports(%q) = false", name)
		}
	}
}

func TestForProductUnknown(t *testing.T) {
	t.Parallel()

	_, err := ForProduct("firebolt")
	if !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
	if Supports("firebolt") {
		t.Error("Supports must reject unknown products")
	}
}
