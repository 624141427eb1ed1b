//go:build !windows

package clean

func longPath(path string) string { return path }
