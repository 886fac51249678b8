// Package testsupport builds throwaway configs and stub engine binaries for
// command tests.
package testsupport
