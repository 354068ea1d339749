// cmd/solidfs/sysmem_other.go

//go:build !linux && !darwin && !windows

package main

import "errors"

// getTotalSystemMemory is unknown on this platform; the budget is unlimited.
func getTotalSystemMemory() (uint64, error) {
	return 0, errors.New("system memory size unavailable")
}
