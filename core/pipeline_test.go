package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/santiagomed/krito/config"
	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInstaller is a mock implementation of installer.Installer
type MockInstaller struct {
	mock.Mock
}

func (m *MockInstaller) Install(ctx context.Context, spec installer.InstallSpec) error {
	args := m.Called(spec)
	return args.Error(0)
}

func (m *MockInstaller) Create(ctx context.Context, spec installer.CreateSpec) error {
	args := m.Called(spec)
	return args.Error(0)
}

type report struct {
	level Level
	msg   string
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []report
}

func (r *recordingReporter) Report(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{level, msg})
}

func (r *recordingReporter) messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rep := range r.reports {
		if rep.level == level {
			out = append(out, rep.msg)
		}
	}
	return out
}

type funcStep func(ctx context.Context, s *State) error

func (f funcStep) Execute(ctx context.Context, s *State) error {
	return f(ctx, s)
}

type fakeStepManager struct {
	order []StepType
	steps map[StepType]Step
}

func (f *fakeStepManager) GetSteps() []StepType     { return f.order }
func (f *fakeStepManager) GetStep(st StepType) Step { return f.steps[st] }

func newTestState() *State {
	return &State{
		Request:   NewRequest("shop", "/work"),
		Config:    config.DefaultConfig(),
		FS:        fs.NewMemoryFileSystem(),
		Installer: new(MockInstaller),
		Templates: templates.NewEmbedded(),
		Reporter:  NopReporter{},
	}
}

func TestStepType_Metadata(t *testing.T) {
	steps := NewDefaultStepManager().GetSteps()
	require.Len(t, steps, 12)
	for i, st := range steps {
		assert.Equal(t, i+1, int(st))
		assert.NotEmpty(t, st.Present())
		assert.NotEmpty(t, st.Past())
		assert.NotEqual(t, EffectNone, st.Effect())
	}

	assert.Equal(t, EffectRunInstaller, CreateFrontend.Effect())
	assert.Equal(t, EffectPatchFile, RegisterStylingPlugin.Effect())
	assert.Equal(t, EffectMkdir, CreateBackendTree.Effect())
	assert.Equal(t, EffectWriteFile, WriteBackendManifest.Effect())
	assert.Equal(t, "step(42)", StepType(42).String())
}

func TestDefaultStepManager_GetStep(t *testing.T) {
	sm := NewDefaultStepManager()
	for _, st := range sm.GetSteps() {
		assert.NotNil(t, sm.GetStep(st), "step %v", st)
	}
	assert.Nil(t, sm.GetStep(Prepare))
}

func TestPipeline_Execute(t *testing.T) {
	var ran []StepType
	record := func(st StepType) Step {
		return funcStep(func(ctx context.Context, s *State) error {
			ran = append(ran, st)
			return nil
		})
	}
	sm := &fakeStepManager{
		order: []StepType{CreateFrontend, InstallFrontendDependencies, InstallStyling},
		steps: map[StepType]Step{
			CreateFrontend:              record(CreateFrontend),
			InstallFrontendDependencies: record(InstallFrontendDependencies),
			InstallStyling:              record(InstallStyling),
		},
	}
	rep := &recordingReporter{}

	err := NewPipeline(newTestState(), sm, rep).Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, sm.order, ran)
	assert.Equal(t, []string{
		CreateFrontend.Present(),
		InstallFrontendDependencies.Present(),
		InstallStyling.Present(),
	}, rep.messages(LevelInfo))
	assert.Equal(t, []string{
		CreateFrontend.Past(),
		InstallFrontendDependencies.Past(),
		InstallStyling.Past(),
	}, rep.messages(LevelSuccess))
}

func TestPipeline_ExecuteStopsAtFirstFailure(t *testing.T) {
	var ran []StepType
	boom := errors.New("boom")
	sm := &fakeStepManager{
		order: []StepType{CreateFrontend, InstallFrontendDependencies, InstallStyling},
		steps: map[StepType]Step{
			CreateFrontend: funcStep(func(ctx context.Context, s *State) error {
				ran = append(ran, CreateFrontend)
				return nil
			}),
			InstallFrontendDependencies: funcStep(func(ctx context.Context, s *State) error {
				ran = append(ran, InstallFrontendDependencies)
				return boom
			}),
			InstallStyling: funcStep(func(ctx context.Context, s *State) error {
				ran = append(ran, InstallStyling)
				return nil
			}),
		},
	}
	rep := &recordingReporter{}

	err := NewPipeline(newTestState(), sm, rep).Execute(context.Background())

	var scaffoldErr *ScaffoldError
	require.ErrorAs(t, err, &scaffoldErr)
	assert.Equal(t, InstallFrontendDependencies, scaffoldErr.Step)
	assert.Equal(t, KindIO, scaffoldErr.Kind)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []StepType{CreateFrontend, InstallFrontendDependencies}, ran)
	assert.Equal(t, []string{"Setup failed at step 2 (install frontend dependencies): boom"}, rep.messages(LevelError))
}

func TestPipeline_ExecuteMissingStep(t *testing.T) {
	sm := &fakeStepManager{order: []StepType{CreateFrontend}, steps: map[StepType]Step{}}

	err := NewPipeline(newTestState(), sm, nil).Execute(context.Background())

	var scaffoldErr *ScaffoldError
	require.ErrorAs(t, err, &scaffoldErr)
	assert.Equal(t, CreateFrontend, scaffoldErr.Step)
	assert.Contains(t, err.Error(), "not found")
}

func TestPipeline_ExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran []StepType
	sm := &fakeStepManager{
		order: []StepType{CreateFrontend, InstallFrontendDependencies},
		steps: map[StepType]Step{
			CreateFrontend: funcStep(func(ctx context.Context, s *State) error {
				ran = append(ran, CreateFrontend)
				cancel()
				return nil
			}),
			InstallFrontendDependencies: funcStep(func(ctx context.Context, s *State) error {
				ran = append(ran, InstallFrontendDependencies)
				return nil
			}),
		},
	}

	err := NewPipeline(newTestState(), sm, nil).Execute(ctx)

	var scaffoldErr *ScaffoldError
	require.ErrorAs(t, err, &scaffoldErr)
	assert.Equal(t, InstallFrontendDependencies, scaffoldErr.Step)
	assert.Equal(t, KindCanceled, scaffoldErr.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []StepType{CreateFrontend}, ran)
}
