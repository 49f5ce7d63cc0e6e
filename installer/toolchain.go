package installer

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Toolchain holds the versions of the JavaScript tooling found on PATH.
type Toolchain struct {
	Node           *semver.Version
	PackageManager *semver.Version
	MinNode        *semver.Version
}

// NodeSupported reports whether the installed Node.js satisfies MinNode.
func (t *Toolchain) NodeSupported() bool {
	if t.Node == nil {
		return false
	}
	if t.MinNode == nil {
		return true
	}
	return !t.Node.LessThan(t.MinNode)
}

// CheckToolchain queries `node --version` and `<binary> --version`.
func CheckToolchain(ctx context.Context, runner Runner, binary, minNode string) (*Toolchain, error) {
	minVersion, err := semver.NewVersion(minNode)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum node version %q: %w", minNode, err)
	}

	node, err := toolVersion(ctx, runner, "node")
	if err != nil {
		return nil, err
	}
	pm, err := toolVersion(ctx, runner, binary)
	if err != nil {
		return nil, err
	}

	return &Toolchain{Node: node, PackageManager: pm, MinNode: minVersion}, nil
}

func toolVersion(ctx context.Context, runner Runner, name string) (*semver.Version, error) {
	out, err := runner.Output(ctx, Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		return nil, fmt.Errorf("%s is not available: %w", name, err)
	}
	v, err := semver.NewVersion(out)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s version %q: %w", name, out, err)
	}
	return v, nil
}
