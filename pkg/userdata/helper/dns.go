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

package helper

import (
	"fmt"

	"github.com/thpham/firecfg/pkg/userdata/cloudinit"
)

// DNSOverrideCommand points the VM resolver at the host gateway, where
// dnsmasq answers for the whole fleet. The comment line is product
// specific and supplied by the caller.
func DNSOverrideCommand(gateway, comment string) cloudinit.Command {
	return cloudinit.Command{
		Comment: comment,
		Cmd:     fmt.Sprintf("echo 'nameserver %s' > /etc/resolv.conf", gateway),
	}
}
