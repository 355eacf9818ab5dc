//go:build !darwin

package renderer

var platformExtensions []string

const platformInstanceFlags uint32 = 0
