//
// UserData provider manager.
//

// Package manager provides access to the user-data providers for the
// supported products. Providers are compiled in and registered
// statically; looking one up never starts anything.
package manager

import (
	"errors"
	"fmt"

	"github.com/thpham/firecfg/pkg/apis/product"
	"github.com/thpham/firecfg/pkg/userdata/fireactions"
	"github.com/thpham/firecfg/pkg/userdata/fireglab"
	"github.com/thpham/firecfg/pkg/userdata/fireteact"
	"github.com/thpham/firecfg/pkg/userdata/plugin"
)

var (
	// ErrProviderNotFound describes a product without a registered
	// user-data provider.
	ErrProviderNotFound = errors.New("no user-data provider for the given product found")
)

// providers contains the registered providers.
var providers = map[product.Name]plugin.Provider{
	product.Fireactions: fireactions.Provider{},
	product.Fireglab:    fireglab.Provider{},
	product.Fireteact:   fireteact.Provider{},
}

// ForProduct returns the user-data provider for the given product.
func ForProduct(name product.Name) (plugin.Provider, error) {
	p, found := providers[name]
	if !found {
		return nil, fmt.Errorf("%v: %w", name, ErrProviderNotFound)
	}

	return p, nil
}

// Supports answers if a user-data provider for the product exists.
func Supports(name product.Name) bool {
	_, found := providers[name]

	return found
}
