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

// Package helper provides the boot commands shared by the per-product
// user-data providers.
package helper

import (
	"github.com/thpham/firecfg/pkg/userdata/cloudinit"
)

// NeedsCACertificate reports whether VMs must trust the Squid CA for the
// given SSL bump configuration. Mode "all" intercepts every domain;
// "selective" intercepts only when domains are actually configured. A
// configured CA file alone never triggers injection.
func NeedsCACertificate(mode, domains string) bool {
	return mode == "all" || (mode == "selective" && domains != "")
}

const caBundleRepairScript = `CA_CERT=$(ls /usr/local/share/ca-certificates/cloud-init-ca-cert-*.crt 2>/dev/null | head -1)
if [ -n "$CA_CERT" ]; then
  update-ca-certificates
  cat "$CA_CERT" >> /etc/ssl/certs/ca-certificates.crt
  echo "CA cert added to bundle: $CA_CERT"
fi`

// CABundleRepairCommand returns the boot command working around the
// Ubuntu 24.04 cloud-init bug where the ca_certs module installs hash
// symlinks without appending the certificate to the system bundle. It
// must run before anything that talks TLS through the proxy.
func CABundleRepairCommand() cloudinit.Command {
	return cloudinit.Command{
		Comment: "Fix Ubuntu 24.04 bug: ca_certs module creates hash symlinks but doesn't\nadd cert to /etc/ssl/certs/ca-certificates.crt bundle file.\ncurl/docker use the bundle file, not symlinks, so we must append manually.",
		Cmd:     caBundleRepairScript,
	}
}
