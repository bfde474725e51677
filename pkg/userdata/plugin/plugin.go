//
// Core user-data provider contract.
//

// Package plugin declares the contract between the config generation
// flows and the per-product user-data providers. Providers are pure:
// every input is read from disk and policy-gated by the caller before
// it lands in a request.
package plugin

import (
	"github.com/thpham/firecfg/pkg/registrycache"
)

// UserDataRequest groups the inputs for rendering one product's
// user-data document.
type UserDataRequest struct {
	// CacheEnabled is the registry cache feature switch. File generation
	// additionally requires Gateway and a non-empty mirror set.
	CacheEnabled bool

	// Gateway is the host address VMs reach the registry cache on.
	Gateway string

	// CachePort is the Zot listen port. Zero means the default.
	CachePort int

	// Mirrors lists the cached registries in configuration order.
	Mirrors []registrycache.Mirror

	// DNSGateway, when set, rewrites the VM resolver to this address.
	DNSGateway string

	// CACertificate is PEM text every VM must trust. Callers gate it on
	// the SSL bump policy; providers inject it verbatim.
	CACertificate string

	// SSHAuthorizedKey grants root SSH access for debugging.
	SSHAuthorizedKey string
}

// Provider defines the interface each product provider has to implement
// for the retrieval of the userdata based on the given request.
type Provider interface {
	// UserData renders the user-data document for the request.
	UserData(req UserDataRequest) (string, error)

	// Enabled reports whether user-data should be generated at all for
	// the request. A disabled provider is a silent no-op, not an error.
	Enabled(req UserDataRequest) bool
}
