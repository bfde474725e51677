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

// mmdsBaseURL is the Firecracker MMDS endpoint, reachable from every VM
// at the same link-local address.
const mmdsBaseURL = "http://169.254.169.254/latest/meta-data"

// SetHostnameCommand queries the product's MMDS metadata path and adopts
// the response as the VM hostname. curl -sf keeps a missing or empty
// answer from clobbering the hostname. Callers must place this command
// last in runcmd so every earlier step still runs when MMDS is
// unreachable.
func SetHostnameCommand(metadataPath, varName string) cloudinit.Command {
	cmd := fmt.Sprintf(`%[1]s=$(curl -sf %[2]s/%[3]s)
if [ -n "$%[1]s" ]; then
  hostnamectl set-hostname "$%[1]s"
fi`, varName, mmdsBaseURL, metadataPath)

	return cloudinit.Command{
		Comment: "Set hostname from MMDS metadata",
		Cmd:     cmd,
	}
}
