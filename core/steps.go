package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santiagomed/krito/fs"
	"github.com/santiagomed/krito/installer"
	"github.com/santiagomed/krito/templates"
)

var (
	stylingPackages        = []string{"tailwindcss", "@tailwindcss/vite"}
	frontendLibraries      = []string{"react-router-dom", "axios", "lucide-react"}
	backendPackages        = []string{"express", "cors", "mongoose", "dotenv"}
	backendDevPackages     = []string{"nodemon"}
	backendSubdirectories  = []string{"routes", "models", "controllers", "config"}
	stylingPluginMarker    = "@tailwindcss/vite"
	viteDefineConfigImport = "import { defineConfig } from 'vite'"
)

// isTypeScript reports whether the frontend template generates .ts/.tsx sources.
func isTypeScript(s *State) bool {
	return strings.HasSuffix(s.Config.FrontendTemplate, "-ts")
}

func viteConfigPath(s *State) string {
	name := "vite.config.js"
	if isTypeScript(s) {
		name = "vite.config.ts"
	}
	return filepath.Join(s.Request.FrontendRoot(), name)
}

func appComponentPath(s *State) string {
	name := "App.jsx"
	if isTypeScript(s) {
		name = "App.tsx"
	}
	return filepath.Join(s.Request.FrontendRoot(), "src", name)
}

// StylingPluginRule registers the Tailwind Vite plugin in a Vite config file.
func StylingPluginRule(path string) fs.PatchRule {
	return fs.PatchRule{
		Path:   path,
		Marker: stylingPluginMarker,
		Insertions: []fs.Insertion{
			{
				Anchor: viteDefineConfigImport,
				Text:   "\nimport tailwindcss from '@tailwindcss/vite'",
			},
			{
				Anchor: "plugins: [",
				Text:   "tailwindcss(), ",
				Fallback: &fs.Insertion{
					Anchor: "export default defineConfig({",
					Text:   "\n  plugins: [tailwindcss()],",
				},
			},
		},
	}
}

func writeTemplate(s *State, key templates.Key, path string) error {
	content, err := s.Templates.Get(key)
	if err != nil {
		return err
	}
	if err := s.FS.WriteFile(path, content, fs.Overwrite); err != nil {
		return err
	}
	s.Logger.Debug(fmt.Sprintf("Wrote %s from template %s", path, key))
	return nil
}

type CreateFrontendStep struct{}

func (st *CreateFrontendStep) Execute(ctx context.Context, s *State) error {
	args := append([]string{"--template", s.Config.FrontendTemplate}, s.Config.GeneratorArgs...)
	return s.Installer.Create(ctx, installer.CreateSpec{
		Dir:       s.Request.ProjectRoot(),
		Generator: s.Config.FrontendGenerator,
		Target:    frontendDir,
		Args:      args,
	})
}

type InstallFrontendDependenciesStep struct{}

func (st *InstallFrontendDependenciesStep) Execute(ctx context.Context, s *State) error {
	return s.Installer.Install(ctx, installer.InstallSpec{Dir: s.Request.FrontendRoot()})
}

type InstallStylingStep struct{}

func (st *InstallStylingStep) Execute(ctx context.Context, s *State) error {
	return s.Installer.Install(ctx, installer.InstallSpec{
		Dir:      s.Request.FrontendRoot(),
		Packages: stylingPackages,
		Dev:      true,
	})
}

type RegisterStylingPluginStep struct{}

func (st *RegisterStylingPluginStep) Execute(ctx context.Context, s *State) error {
	path := viteConfigPath(s)
	applied, err := s.FS.PatchFile(StylingPluginRule(path))
	if err != nil {
		return err
	}
	if !applied {
		s.Reporter.Report(LevelWarning, fmt.Sprintf("%s already registers the Tailwind plugin, leaving it unchanged", filepath.Base(path)))
	}
	return nil
}

type WriteStylesheetStep struct{}

func (st *WriteStylesheetStep) Execute(ctx context.Context, s *State) error {
	return writeTemplate(s, templates.Stylesheet, filepath.Join(s.Request.FrontendRoot(), "src", "index.css"))
}

type InstallFrontendLibrariesStep struct{}

// Execute installs each library with its own call. A failure stops the
// pipeline but keeps the libraries installed before it.
func (st *InstallFrontendLibrariesStep) Execute(ctx context.Context, s *State) error {
	for _, lib := range frontendLibraries {
		s.Reporter.Report(LevelInfo, fmt.Sprintf("Installing %s...", lib))
		err := s.Installer.Install(ctx, installer.InstallSpec{
			Dir:      s.Request.FrontendRoot(),
			Packages: []string{lib},
		})
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", lib, err)
		}
	}
	return nil
}

type WriteFrontendEnvStep struct{}

func (st *WriteFrontendEnvStep) Execute(ctx context.Context, s *State) error {
	content := RenderEnv([]EnvVar{
		{"VITE_API_URL", s.Config.APIURL()},
		{"VITE_APP_NAME", s.Request.ProjectName},
	})
	return s.FS.WriteFile(filepath.Join(s.Request.FrontendRoot(), ".env"), content, fs.Overwrite)
}

type WriteAppComponentStep struct{}

func (st *WriteAppComponentStep) Execute(ctx context.Context, s *State) error {
	return writeTemplate(s, templates.AppComponent, appComponentPath(s))
}

type CreateBackendTreeStep struct{}

func (st *CreateBackendTreeStep) Execute(ctx context.Context, s *State) error {
	for _, dir := range backendSubdirectories {
		if err := s.FS.EnsureDirectory(filepath.Join(s.Request.BackendRoot(), dir)); err != nil {
			return err
		}
	}
	return nil
}

type WriteBackendFilesStep struct{}

func (st *WriteBackendFilesStep) Execute(ctx context.Context, s *State) error {
	root := s.Request.BackendRoot()
	env := RenderEnv([]EnvVar{
		{"PORT", fmt.Sprint(s.Config.APIPort)},
		{"MONGO_URI", s.Config.DatabaseURI()},
	})
	if err := s.FS.WriteFile(filepath.Join(root, ".env"), env, fs.Overwrite); err != nil {
		return err
	}
	if err := writeTemplate(s, templates.DBConfig, filepath.Join(root, "config", "dbConfig.js")); err != nil {
		return err
	}
	return writeTemplate(s, templates.Server, filepath.Join(root, "server.js"))
}

type WriteBackendManifestStep struct{}

func (st *WriteBackendManifestStep) Execute(ctx context.Context, s *State) error {
	content, err := NewBackendManifest(s.Request.ProjectName).Marshal()
	if err != nil {
		return err
	}
	return s.FS.WriteFile(filepath.Join(s.Request.BackendRoot(), "package.json"), content, fs.Overwrite)
}

type InstallBackendDependenciesStep struct{}

func (st *InstallBackendDependenciesStep) Execute(ctx context.Context, s *State) error {
	s.Reporter.Report(LevelInfo, fmt.Sprintf("Installing backend dependencies: %s...", strings.Join(backendPackages, ", ")))
	err := s.Installer.Install(ctx, installer.InstallSpec{
		Dir:      s.Request.BackendRoot(),
		Packages: backendPackages,
	})
	if err != nil {
		return err
	}
	return s.Installer.Install(ctx, installer.InstallSpec{
		Dir:      s.Request.BackendRoot(),
		Packages: backendDevPackages,
		Dev:      true,
	})
}
