// cmd/solidfs/sysmem_linux.go

//go:build linux

package main

import "syscall"

// getTotalSystemMemory returns total system RAM in bytes (Linux)
func getTotalSystemMemory() (uint64, error) {
	var si syscall.Sysinfo_t
	err := syscall.Sysinfo(&si)
	if err != nil {
		return 0, err
	}

	// Totalram is counted in Unit-sized blocks
	totalBytes := si.Totalram * uint64(si.Unit)
	return totalBytes, nil
}
