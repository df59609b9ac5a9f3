//go:build !release

package buildinfo

const mode = Debug
