package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitelist_RoundTrip(t *testing.T) {
	wl := NewWhitelist()

	assert.True(t, wl.Add("Chrome.exe"))
	assert.Contains(t, wl.List(), "Chrome.exe")

	assert.True(t, wl.Remove("Chrome.exe"))
	assert.NotContains(t, wl.List(), "Chrome.exe")
	assert.Zero(t, wl.Len())
}

func TestWhitelist_AddIsIdempotent(t *testing.T) {
	wl := NewWhitelist("Spotify")

	assert.False(t, wl.Add("Spotify"))
	assert.False(t, wl.Add("spotify"))
	assert.False(t, wl.Add("SPOTIFY.EXE"))
	assert.Equal(t, []string{"Spotify"}, wl.List())
}

func TestWhitelist_MatchingIsCaseInsensitive(t *testing.T) {
	wl := NewWhitelist("Discord")

	assert.True(t, wl.Contains("discord"))
	assert.True(t, wl.Contains("Discord.exe"))
	assert.False(t, wl.Contains("slack"))

	assert.True(t, wl.Remove("DISCORD"))
	assert.False(t, wl.Contains("Discord"))
}

func TestWhitelist_RejectsBlankAndUnknown(t *testing.T) {
	wl := NewWhitelist()

	assert.False(t, wl.Add("   "))
	assert.False(t, wl.Remove("never-added"))
	assert.Empty(t, wl.List())
}

func TestWhitelist_ListIsSorted(t *testing.T) {
	wl := NewWhitelist("zoom", "Code", "brave")

	assert.Equal(t, []string{"brave", "Code", "zoom"}, wl.List())
}
