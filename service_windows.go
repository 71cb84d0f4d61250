//go:build windows

// service_windows.go implements Windows service support using
// github.com/kardianos/service, so the backend can run as a background
// service with proper Start/Stop handling.
package main

import (
	"fmt"

	"github.com/kardianos/service"
)

// program implements service.Interface and delegates to run().
type program struct {
	exit chan struct{}
}

// Start begins the application in a goroutine; the service manager
// expects Start to return promptly.
func (p *program) Start(s service.Service) error {
	p.exit = make(chan struct{})
	go func() {
		defer close(p.exit)
		run()
	}()
	return nil
}

// Stop signals shutdown and waits for run() to finish.
func (p *program) Stop(s service.Service) error {
	// run() shuts down on SIGTERM; the service manager delivers the
	// equivalent, so just wait for the exit channel.
	<-p.exit
	return nil
}

// serviceConfig describes the Windows service registration.
func serviceConfig() *service.Config {
	return &service.Config{
		Name:        "MemeForgeBackend",
		DisplayName: "MemeForge Studio Backend",
		Description: "HTTP backend for meme composition, karaoke clips, and AI-assisted generation",
		Option: service.KeyValue{
			"StartType": "automatic",
		},
	}
}

// RunAsService runs the application under the Windows service manager.
// Returns false when running interactively, so main continues normally.
func RunAsService() (bool, error) {
	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		return false, fmt.Errorf("failed to create service: %w", err)
	}

	if service.Interactive() {
		return false, nil
	}

	if err := s.Run(); err != nil {
		return true, fmt.Errorf("service run failed: %w", err)
	}
	return true, nil
}

// HandleServiceCommand processes install/uninstall/start/stop arguments.
// Returns true when a command was handled and the process should exit.
func HandleServiceCommand(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "install", "uninstall", "start", "stop":
	default:
		return false
	}

	s, err := service.New(&program{}, serviceConfig())
	if err != nil {
		fmt.Printf("Failed to create service: %v\n", err)
		return true
	}

	var cmdErr error
	switch args[0] {
	case "install":
		cmdErr = s.Install()
	case "uninstall":
		cmdErr = s.Uninstall()
	case "start":
		cmdErr = s.Start()
	case "stop":
		cmdErr = s.Stop()
	}

	if cmdErr != nil {
		fmt.Printf("Service %s failed: %v\n", args[0], cmdErr)
	} else {
		fmt.Printf("Service %s completed\n", args[0])
	}
	return true
}
