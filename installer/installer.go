// Package installer runs package-manager commands for generated projects.
package installer

import (
	"context"
	"fmt"

	"github.com/santiagomed/krito/logger"
)

// InstallSpec describes a single dependency installation.
type InstallSpec struct {
	Dir      string
	Packages []string
	Dev      bool
}

// CreateSpec describes a project generator invocation such as
// `npm create vite@latest frontend -- --template react`.
type CreateSpec struct {
	Dir       string
	Generator string
	Target    string
	Args      []string
}

// Installer installs dependencies and runs project generators.
type Installer interface {
	Install(ctx context.Context, spec InstallSpec) error
	Create(ctx context.Context, spec CreateSpec) error
}

// PackageManager drives an npm-compatible command line client.
type PackageManager struct {
	binary string
	runner Runner
	logger logger.Logger
}

func NewPackageManager(binary string, runner Runner, l logger.Logger) *PackageManager {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &PackageManager{
		binary: binary,
		runner: runner,
		logger: l,
	}
}

func (p *PackageManager) Install(ctx context.Context, spec InstallSpec) error {
	cmd := Command{Dir: spec.Dir, Name: p.binary, Args: InstallArgs(spec)}
	return p.run(ctx, cmd)
}

func (p *PackageManager) Create(ctx context.Context, spec CreateSpec) error {
	cmd := Command{Dir: spec.Dir, Name: p.binary, Args: CreateArgs(spec)}
	return p.run(ctx, cmd)
}

func (p *PackageManager) run(ctx context.Context, cmd Command) error {
	log := p.logger.WithField("dir", cmd.Dir)
	log.Info(fmt.Sprintf("Running %s", cmd))
	if err := p.runner.Run(ctx, cmd); err != nil {
		log.Error(fmt.Sprintf("Command failed: %v", err))
		return err
	}
	log.Debug(fmt.Sprintf("Command finished: %s", cmd))
	return nil
}

// InstallArgs builds `install [-D] pkgs...`. No packages installs the
// dependencies already listed in the manifest.
func InstallArgs(spec InstallSpec) []string {
	args := []string{"install"}
	if spec.Dev {
		args = append(args, "-D")
	}
	return append(args, spec.Packages...)
}

// CreateArgs builds `create --yes <generator> <target> -- <args...>`.
func CreateArgs(spec CreateSpec) []string {
	args := []string{"create", "--yes", spec.Generator, spec.Target}
	if len(spec.Args) > 0 {
		args = append(args, "--")
		args = append(args, spec.Args...)
	}
	return args
}
