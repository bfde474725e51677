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

package version_test

import (
	"runtime/debug"
	"testing"

	"github.com/thpham/firecfg/pkg/version"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name         string
		read         version.ReadBuildInfo
		wantVersion  string
		wantRevision string
		wantBuiltAt  string
		wantDirty    bool
	}{
		{
			name: "build info unavailable",
			read: func() (*debug.BuildInfo, bool) {
				return nil, false
			},
			wantVersion:  "",
			wantRevision: "unknown",
			wantBuiltAt:  "unknown",
			wantDirty:    false,
		},
		{
			name: "tagged module build",
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{
					Main: debug.Module{Version: "v1.2.3"},
					Settings: []debug.BuildSetting{
						{Key: "vcs.revision", Value: "abc123def456"},
						{Key: "vcs.time", Value: "2025-06-01T12:00:00Z"},
						{Key: "vcs.modified", Value: "false"},
					},
				}, true
			},
			wantVersion:  "v1.2.3",
			wantRevision: "abc123def456",
			wantBuiltAt:  "2025-06-01T12:00:00Z",
			wantDirty:    false,
		},
		{
			name: "devel build from dirty checkout",
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{
					Main: debug.Module{Version: "(devel)"},
					Settings: []debug.BuildSetting{
						{Key: "vcs.revision", Value: "deadbeef"},
						{Key: "vcs.modified", Value: "true"},
					},
				}, true
			},
			wantVersion:  "",
			wantRevision: "deadbeef",
			wantBuiltAt:  "unknown",
			wantDirty:    true,
		},
		{
			name: "no vcs settings",
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{
					Main: debug.Module{Version: "v2.0.0"},
				}, true
			},
			wantVersion:  "v2.0.0",
			wantRevision: "unknown",
			wantBuiltAt:  "unknown",
			wantDirty:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := version.Get(version.WithReadBuildInfo(tt.read))

			if got.Version != tt.wantVersion {
				t.Errorf("Get().Version = %q, want %q", got.Version, tt.wantVersion)
			}
			if got.Revision != tt.wantRevision {
				t.Errorf("Get().Revision = %q, want %q", got.Revision, tt.wantRevision)
			}
			if got.BuiltAt != tt.wantBuiltAt {
				t.Errorf("Get().BuiltAt = %q, want %q", got.BuiltAt, tt.wantBuiltAt)
			}
			if got.Dirty != tt.wantDirty {
				t.Errorf("Get().Dirty = %v, want %v", got.Dirty, tt.wantDirty)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info version.Info
		want string
	}{
		{
			name: "module version wins",
			info: version.Info{Version: "v1.2.3", Revision: "abc123", Dirty: true},
			want: "v1.2.3",
		},
		{
			name: "revision fallback",
			info: version.Info{Revision: "cafe1234"},
			want: "cafe1234",
		},
		{
			name: "dirty revision",
			info: version.Info{Revision: "cafe1234", Dirty: true},
			want: "cafe1234-dirty",
		},
		{
			name: "nothing known",
			info: version.Info{Revision: "unknown"},
			want: "dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("Info.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetDefaultReader(t *testing.T) {
	info := version.Get()

	if info.Revision == "" {
		t.Error("Get() returned empty Revision")
	}
	if info.String() == "" {
		t.Error("Info.String() returned empty string")
	}
}
