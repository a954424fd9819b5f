package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-html2img"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Strategies overrides the acquisition chain built from configuration.
	// Nil in production; tests inject fakes.
	Strategies []html2img.Strategy
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
