package version

import (
	"runtime/debug"
	"testing"
)

func TestEffective_Explicit(t *testing.T) {
	if got := Effective("v1.2.3"); got != "v1.2.3" {
		t.Errorf("Effective = %q, want v1.2.3", got)
	}
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		info debug.BuildInfo
		want string
	}{
		{
			name: "module version",
			info: debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: "v0.4.0",
		},
		{
			name: "devel without vcs",
			info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: "devel",
		},
		{
			name: "clean revision",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			want: "devel+0123456789ab",
		},
		{
			name: "dirty revision",
			info: debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "devel+abc123+dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(&tt.info); got != tt.want {
				t.Errorf("fromBuildInfo = %q, want %q", got, tt.want)
			}
		})
	}
}
