package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowsRelease(t *testing.T) {
	tests := []struct {
		major, minor, build uint32
		want                string
	}{
		{10, 0, 22631, "Windows 11 (Build 22631)"},
		{10, 0, 22000, "Windows 11 (Build 22000)"},
		{10, 0, 19045, "Windows 10 (Build 19045)"},
		{6, 3, 9600, "Windows 8.1 (Build 9600)"},
		{6, 1, 7601, "Windows 7 (Build 7601)"},
		{6, 0, 6002, "Windows 6.0 (Build 6002)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, windowsRelease(tt.major, tt.minor, tt.build))
		})
	}
}

func TestHostInfoString(t *testing.T) {
	assert.Equal(t, "Windows 11 (Build 22631), elevated", HostInfo{OS: "Windows 11 (Build 22631)", Elevated: true}.String())
	assert.Equal(t, "ubuntu 24.04 (linux), not elevated", HostInfo{OS: "ubuntu 24.04 (linux)"}.String())
}
