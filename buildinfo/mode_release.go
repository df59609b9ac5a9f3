//go:build release

package buildinfo

const mode = Release
