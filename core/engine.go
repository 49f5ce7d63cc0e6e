package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/santiagomed/krito/config"
	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/logger"
	"github.com/santiagomed/krito/templates"
)

// Engine scaffolds one project per Run call.
type Engine struct {
	config      *config.Config
	fs          *fs.FileSystem
	installer   installer.Installer
	templates   templates.Provider
	reporter    Reporter
	logger      logger.Logger
	stepManager StepManager
}

func NewEngine(cfg *config.Config, fsys *fs.FileSystem, inst installer.Installer, tp templates.Provider, reporter Reporter, l logger.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Engine{
		config:      cfg,
		fs:          fsys,
		installer:   inst,
		templates:   tp,
		reporter:    reporter,
		logger:      l,
		stepManager: NewDefaultStepManager(),
	}
}

// WithStepManager replaces the steps the engine runs.
func (e *Engine) WithStepManager(sm StepManager) *Engine {
	e.stepManager = sm
	return e
}

// Run validates the request, creates the project root and executes the
// pipeline. Any returned error is a *ScaffoldError.
func (e *Engine) Run(ctx context.Context, req *Request) error {
	log := e.logger.WithField("project", req.ProjectName)

	if err := req.Validate(); err != nil {
		log.Warn(fmt.Sprintf("Rejected request: %v", err))
		return e.reject(err)
	}

	root := req.ProjectRoot()
	e.reporter.Report(LevelInfo, fmt.Sprintf("Creating project %s in %s...", req.ProjectName, root))
	if err := e.fs.EnsureDirectory(root); err != nil {
		log.Error(fmt.Sprintf("Error creating project root %s: %v", root, err))
		return e.reject(err)
	}

	state := &State{
		Request:   req,
		Config:    e.config,
		FS:        e.fs,
		Installer: e.installer,
		Templates: e.templates,
		Reporter:  e.reporter,
		Logger:    log,
	}
	if err := NewPipeline(state, e.stepManager, e.reporter).Execute(ctx); err != nil {
		return err
	}

	e.reporter.Report(LevelSuccess, "krito fullstack setup complete!")
	e.reporter.Report(LevelInfo, fmt.Sprintf("Frontend: cd %s && %s run dev", filepath.ToSlash(req.FrontendRoot()), e.config.PackageManager))
	e.reporter.Report(LevelInfo, fmt.Sprintf("Backend:  cd %s && %s run dev", filepath.ToSlash(req.BackendRoot()), e.config.PackageManager))
	return nil
}

func (e *Engine) reject(err error) error {
	scaffoldErr := newScaffoldError(Prepare, err)
	e.reporter.Report(LevelError, scaffoldErr.Error())
	return scaffoldErr
}
