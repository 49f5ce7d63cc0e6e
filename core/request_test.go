package core

import (
	"context"
	"errors"
	"testing"

	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/templates"
	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest("  shop ", "")
	assert.Equal(t, "shop", r.ProjectName)
	assert.Equal(t, ".", r.BaseDir)
	assert.Equal(t, "shop", r.ProjectRoot())
	assert.Equal(t, "shop/frontend", r.FrontendRoot())
	assert.Equal(t, "shop/backend", r.BackendRoot())

	r = NewRequest("shop", "/tmp/projects")
	assert.Equal(t, "/tmp/projects/shop/frontend", r.FrontendRoot())
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"shop", false},
		{"my-app_2", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
	}
	for _, tt := range tests {
		err := NewRequest(tt.name, "").Validate()
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, "name %q", tt.name)
		} else {
			assert.NoError(t, err, "name %q", tt.name)
		}
	}
}

func TestScaffoldError(t *testing.T) {
	procErr := &installer.ProcessError{Command: "npm install", ExitCode: 1}
	err := newScaffoldError(InstallFrontendDependencies, procErr)
	assert.Equal(t, "step 2 (install frontend dependencies): process error: 'npm install' exited with code 1", err.Error())
	assert.ErrorIs(t, err, procErr)
	code, ok := err.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	spawn := newScaffoldError(CreateFrontend, &installer.ProcessError{Command: "npm create", ExitCode: -1, SpawnFailed: true, Err: errors.New("not found")})
	_, ok = spawn.ExitCode()
	assert.False(t, ok)
	assert.Equal(t, KindProcess, spawn.Kind)

	prep := newScaffoldError(Prepare, ErrInvalidInput)
	assert.Equal(t, "invalid input: invalid input", prep.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindCanceled, classify(context.Canceled))
	assert.Equal(t, KindCanceled, classify(context.DeadlineExceeded))
	assert.Equal(t, KindInvalidInput, classify(ErrInvalidInput))
	assert.Equal(t, KindPathConflict, classify(fs.ErrPathConflict))
	assert.Equal(t, KindProcess, classify(&installer.ProcessError{Command: "npm install", ExitCode: 1}))
	assert.Equal(t, KindUnknownTemplate, classify(templates.ErrUnknownTemplate))
	assert.Equal(t, KindIO, classify(fs.ErrNotFound))
	assert.Equal(t, KindIO, classify(errors.New("disk full")))
}

func TestBackendManifest(t *testing.T) {
	content, err := NewBackendManifest("shop").Marshal()
	assert.NoError(t, err)
	assert.Equal(t, `{
  "name": "shop-backend",
  "version": "1.0.0",
  "type": "module",
  "main": "server.js",
  "scripts": {
    "start": "node server.js",
    "dev": "nodemon server.js"
  },
  "dependencies": {}
}
`, content)
}

func TestRenderEnv(t *testing.T) {
	assert.Equal(t, "PORT=5000\nMONGO_URI=mongodb://localhost:27017/krito\n", RenderEnv([]EnvVar{
		{"PORT", "5000"},
		{"MONGO_URI", "mongodb://localhost:27017/krito"},
	}))
	assert.Empty(t, RenderEnv(nil))
}
