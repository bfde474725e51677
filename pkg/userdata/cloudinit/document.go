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

// Package cloudinit assembles the #cloud-config user-data documents
// served to Firecracker VMs over MMDS. Documents are rendered as text,
// not marshalled YAML, so generated files keep their comments and the
// exact 6-space block scalar indentation cloud-init expects.
package cloudinit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// File is one write_files entry. Owner and Permissions are optional.
type File struct {
	Path        string
	Owner       string
	Permissions string
	Content     string
}

// Command is one runcmd entry. A Cmd containing newlines renders as a
// literal block entry so cloud-init hands the whole script to one shell.
type Command struct {
	// Comment is emitted as "# " lines above the entry. Multi-line
	// comments are split on newlines.
	Comment string
	Cmd     string
}

// Document is a complete user-data document. Section order is fixed:
// header, write_files, ca_certs, users, runcmd. The runcmd section is
// always present; the others appear only when populated.
type Document struct {
	// Comment is the product line under #cloud-config.
	Comment string

	Files []File

	// CACertificate is PEM text injected into ca_certs/trusted. Trailing
	// newlines are stripped before indentation.
	CACertificate string

	// SSHAuthorizedKey grants root SSH access for debugging.
	SSHAuthorizedKey string

	// Commands run in order. Callers must append the hostname command
	// last so earlier steps still run when MMDS is unreachable.
	Commands []Command
}

const documentTemplate = `#cloud-config
# {{ .Comment }}

{{ if .Files }}# Containerd registry mirror configuration for Zot pull-through cache
# Each registry gets a hosts.toml that points to the local Zot mirror
write_files:
{{ range .Files }}  - path: {{ .Path }}
{{ if .Owner }}    owner: {{ .Owner }}
{{ end }}{{ if .Permissions }}    permissions: '{{ .Permissions }}'
{{ end }}    content: |
{{ .Content | indent 6 }}
{{ end }}{{ end }}{{ if .CACertificate }}
# CA certificate for Squid SSL bump
# Required for HTTPS interception of configured domains
ca_certs:
  trusted:
    - |
{{ .CACertificate | indent 6 }}
{{ end }}{{ if .SSHAuthorizedKey }}
# SSH access for debugging
users:
  - name: root
    ssh_authorized_keys:
      - {{ .SSHAuthorizedKey }}
{{ end }}
# Runtime configuration via runcmd
runcmd:
{{ range .Commands }}{{ runcmdEntry . }}
{{ end }}`

// Render produces the user-data text for doc. Rendering is deterministic:
// the same document always yields the same bytes, and the result carries
// exactly one trailing newline.
func Render(doc Document) (string, error) {
	tmpl, err := template.New("user-data").Funcs(txtFuncMap()).Parse(documentTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse user-data template: %w", err)
	}

	doc.CACertificate = strings.TrimRight(doc.CACertificate, "\n")

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, doc); err != nil {
		return "", fmt.Errorf("failed to execute user-data template: %w", err)
	}

	return buf.String(), nil
}

func txtFuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["runcmdEntry"] = runcmdEntry

	return funcs
}

// runcmdEntry renders one runcmd list entry, without a trailing newline.
func runcmdEntry(c Command) string {
	var b strings.Builder

	if c.Comment != "" {
		for _, line := range strings.Split(c.Comment, "\n") {
			b.WriteString("  # ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if strings.Contains(c.Cmd, "\n") {
		b.WriteString("  - |")
		for _, line := range strings.Split(c.Cmd, "\n") {
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	} else {
		b.WriteString("  - ")
		b.WriteString(c.Cmd)
	}

	return b.String()
}
