package core

import (
	"context"
	"fmt"
	"time"

	"github.com/santiagomed/krito/config"
	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/logger"
	"github.com/santiagomed/krito/templates"
)

type Step interface {
	Execute(ctx context.Context, state *State) error
}

type StepType int

const (
	Prepare StepType = iota
	CreateFrontend
	InstallFrontendDependencies
	InstallStyling
	RegisterStylingPlugin
	WriteStylesheet
	InstallFrontendLibraries
	WriteFrontendEnv
	WriteAppComponent
	CreateBackendTree
	WriteBackendFiles
	WriteBackendManifest
	InstallBackendDependencies
)

// Effect is the kind of side effect a step has.
type Effect string

const (
	EffectNone         Effect = "none"
	EffectMkdir        Effect = "mkdir"
	EffectWriteFile    Effect = "write-file"
	EffectPatchFile    Effect = "patch-file"
	EffectRunInstaller Effect = "run-installer"
)

var stepInfo = map[StepType]struct {
	name    string
	present string
	past    string
	effect  Effect
}{
	Prepare:                     {"prepare project directory", "Preparing project directory...", "Project directory ready.", EffectMkdir},
	CreateFrontend:              {"create frontend", "Setting up Vite + React frontend...", "Frontend created.", EffectRunInstaller},
	InstallFrontendDependencies: {"install frontend dependencies", "Installing frontend dependencies...", "Frontend dependencies installed.", EffectRunInstaller},
	InstallStyling:              {"install styling toolchain", "Installing Tailwind CSS...", "Tailwind CSS installed.", EffectRunInstaller},
	RegisterStylingPlugin:       {"register styling plugin", "Registering the Tailwind plugin in the Vite config...", "Tailwind plugin registered.", EffectPatchFile},
	WriteStylesheet:             {"write global stylesheet", "Writing global stylesheet...", "Global stylesheet written.", EffectWriteFile},
	InstallFrontendLibraries:    {"install frontend libraries", "Installing frontend libraries...", "Frontend libraries installed.", EffectRunInstaller},
	WriteFrontendEnv:            {"write frontend env file", "Writing frontend .env...", "Frontend .env written.", EffectWriteFile},
	WriteAppComponent:           {"write app component", "Writing the app component...", "App component written.", EffectWriteFile},
	CreateBackendTree:           {"create backend directories", "Setting up Express backend...", "Backend directories created.", EffectMkdir},
	WriteBackendFiles:           {"write backend files", "Writing backend env, database config and server...", "Backend files written.", EffectWriteFile},
	WriteBackendManifest:        {"write backend manifest", "Writing backend package.json...", "Backend package.json written.", EffectWriteFile},
	InstallBackendDependencies:  {"install backend dependencies", "Installing backend dependencies...", "Backend dependencies installed.", EffectRunInstaller},
}

func (s StepType) String() string {
	if info, ok := stepInfo[s]; ok {
		return info.name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Effect returns the side-effect class of the step.
func (s StepType) Effect() Effect {
	if info, ok := stepInfo[s]; ok {
		return info.effect
	}
	return EffectNone
}

// Present is the message shown while the step runs.
func (s StepType) Present() string {
	if info, ok := stepInfo[s]; ok {
		return info.present
	}
	return s.String()
}

// Past is the message shown once the step completed.
func (s StepType) Past() string {
	if info, ok := stepInfo[s]; ok {
		return info.past
	}
	return s.String()
}

type State struct {
	Request   *Request
	Config    *config.Config
	FS        *fs.FileSystem
	Installer installer.Installer
	Templates templates.Provider
	Reporter  Reporter
	Logger    logger.Logger
}

type Pipeline struct {
	stepManager StepManager
	state       *State
	reporter    Reporter
}

func NewPipeline(state *State, sm StepManager, reporter Reporter) *Pipeline {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if state.Logger == nil {
		state.Logger = logger.NewNullLogger()
	}
	return &Pipeline{
		stepManager: sm,
		state:       state,
		reporter:    reporter,
	}
}

// Execute runs the steps in order and stops at the first failure. Completed
// steps are not undone.
func (p *Pipeline) Execute(ctx context.Context) error {
	steps := p.stepManager.GetSteps()
	p.state.Logger.Info("Starting pipeline execution")
	for i, stepType := range steps {
		log := p.state.Logger.WithField("step", int(stepType))

		if err := ctx.Err(); err != nil {
			log.Info("Pipeline execution cancelled")
			return p.fail(stepType, err)
		}

		step := p.stepManager.GetStep(stepType)
		if step == nil {
			log.Error(fmt.Sprintf("Step %v not found", stepType))
			return p.fail(stepType, fmt.Errorf("step %v not found", stepType))
		}

		log.Info(fmt.Sprintf("Attempting to execute step %d: %v (%s)", int(stepType), stepType, stepType.Effect()))
		p.reporter.Report(LevelInfo, stepType.Present())

		startTime := time.Now()
		if err := step.Execute(ctx, p.state); err != nil {
			log.Error(fmt.Sprintf("Error executing step %v: %v", stepType, err))
			return p.fail(stepType, err)
		}
		duration := time.Since(startTime)
		log.Info(fmt.Sprintf("Step %v completed in %v", stepType, duration))
		p.reporter.Report(LevelSuccess, stepType.Past())

		if i < len(steps)-1 {
			log.Debug(fmt.Sprintf("Transitioning from step %v to step %v", stepType, steps[i+1]))
		}
	}

	p.state.Logger.Info("Pipeline execution completed")
	return nil
}

func (p *Pipeline) fail(stepType StepType, err error) error {
	scaffoldErr := newScaffoldError(stepType, err)
	p.reporter.Report(LevelError, fmt.Sprintf("Setup failed at step %d (%v): %v", int(stepType), stepType, err))
	return scaffoldErr
}

// StepManager supplies the ordered step list and the implementation of each step.
type StepManager interface {
	GetSteps() []StepType
	GetStep(stepType StepType) Step
}

type DefaultStepManager struct {
	steps map[StepType]Step
}

func NewDefaultStepManager() *DefaultStepManager {
	return &DefaultStepManager{
		steps: map[StepType]Step{
			CreateFrontend:              &CreateFrontendStep{},
			InstallFrontendDependencies: &InstallFrontendDependenciesStep{},
			InstallStyling:              &InstallStylingStep{},
			RegisterStylingPlugin:       &RegisterStylingPluginStep{},
			WriteStylesheet:             &WriteStylesheetStep{},
			InstallFrontendLibraries:    &InstallFrontendLibrariesStep{},
			WriteFrontendEnv:            &WriteFrontendEnvStep{},
			WriteAppComponent:           &WriteAppComponentStep{},
			CreateBackendTree:           &CreateBackendTreeStep{},
			WriteBackendFiles:           &WriteBackendFilesStep{},
			WriteBackendManifest:        &WriteBackendManifestStep{},
			InstallBackendDependencies:  &InstallBackendDependenciesStep{},
		},
	}
}

func (sm *DefaultStepManager) GetSteps() []StepType {
	return []StepType{
		CreateFrontend,
		InstallFrontendDependencies,
		InstallStyling,
		RegisterStylingPlugin,
		WriteStylesheet,
		InstallFrontendLibraries,
		WriteFrontendEnv,
		WriteAppComponent,
		CreateBackendTree,
		WriteBackendFiles,
		WriteBackendManifest,
		InstallBackendDependencies,
	}
}

func (sm *DefaultStepManager) GetStep(stepType StepType) Step {
	return sm.steps[stepType]
}
