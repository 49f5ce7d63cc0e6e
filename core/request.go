package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidInput marks requests rejected before any side effect.
var ErrInvalidInput = errors.New("invalid input")

const (
	frontendDir = "frontend"
	backendDir  = "backend"
)

// Request indicates the user's request for a new project.
type Request struct {
	// ProjectName is used as the project directory name.
	ProjectName string
	// BaseDir is the directory the project is created in.
	BaseDir string
}

func NewRequest(projectName, baseDir string) *Request {
	if baseDir == "" {
		baseDir = "."
	}
	return &Request{
		ProjectName: strings.TrimSpace(projectName),
		BaseDir:     baseDir,
	}
}

// Validate checks that the project name is usable as a single path segment.
func (r *Request) Validate() error {
	name := r.ProjectName
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	case name == "." || name == "..":
		return fmt.Errorf("%w: project name %q is not a directory name", ErrInvalidInput, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: project name %q must not contain path separators", ErrInvalidInput, name)
	}
	return nil
}

func (r *Request) ProjectRoot() string {
	return filepath.Join(r.BaseDir, r.ProjectName)
}

func (r *Request) FrontendRoot() string {
	return filepath.Join(r.ProjectRoot(), frontendDir)
}

func (r *Request) BackendRoot() string {
	return filepath.Join(r.ProjectRoot(), backendDir)
}
