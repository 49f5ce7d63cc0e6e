// Package templates holds the static file bodies written into generated projects.
package templates

import (
	"embed"
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned for keys that have no content.
var ErrUnknownTemplate = errors.New("unknown template")

// Key names a template.
type Key string

const (
	AppComponent Key = "app.jsx"
	Stylesheet   Key = "index.css"
	Server       Key = "server.js"
	DBConfig     Key = "db-config.js"
)

//go:embed files/*
var files embed.FS

var paths = map[Key]string{
	AppComponent: "files/App.jsx",
	Stylesheet:   "files/index.css",
	Server:       "files/server.js",
	DBConfig:     "files/dbConfig.js",
}

// Provider looks up template content by key.
type Provider interface {
	Get(key Key) (string, error)
}

// Embedded serves the templates compiled into the binary.
type Embedded struct{}

func NewEmbedded() *Embedded {
	return &Embedded{}
}

func (e *Embedded) Get(key Key) (string, error) {
	p, ok := paths[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	data, err := files.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnknownTemplate, key, err)
	}
	return string(data), nil
}

// Keys returns every key the embedded provider knows.
func Keys() []Key {
	return []Key{AppComponent, Stylesheet, Server, DBConfig}
}

// Static is a Provider over a fixed map, handy for tests and overrides.
type Static map[Key]string

func (s Static) Get(key Key) (string, error) {
	content, ok := s[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return content, nil
}
