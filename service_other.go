//go:build !windows

// Service stubs for non-Windows platforms.
package main

// RunAsService is a no-op outside Windows; the application always runs
// normally.
func RunAsService() (bool, error) {
	return false, nil
}

// HandleServiceCommand is a no-op outside Windows.
func HandleServiceCommand(args []string) bool {
	return false
}
