package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ManifestScripts struct {
	Start string `json:"start"`
	Dev   string `json:"dev"`
}

// PackageManifest is the package.json written for the backend. Dependencies
// start empty and are filled in by the installer.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Type         string            `json:"type"`
	Main         string            `json:"main"`
	Scripts      ManifestScripts   `json:"scripts"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewBackendManifest(projectName string) PackageManifest {
	return PackageManifest{
		Name:    projectName + "-backend",
		Version: "1.0.0",
		Type:    "module",
		Main:    "server.js",
		Scripts: ManifestScripts{
			Start: "node server.js",
			Dev:   "nodemon server.js",
		},
		Dependencies: map[string]string{},
	}
}

// Marshal renders the manifest as two-space indented JSON.
func (m PackageManifest) Marshal() (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding package manifest: %w", err)
	}
	return string(data) + "\n", nil
}

type EnvVar struct {
	Key   string
	Value string
}

// RenderEnv renders KEY=value lines in the given order.
func RenderEnv(vars []EnvVar) string {
	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "%s=%s\n", v.Key, v.Value)
	}
	return b.String()
}
