package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/santiagomed/krito/config"
	"github.com/santiagomed/krito/installer"
	"github.com/spf13/cobra"
)

func newDoctorCmd(a *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that Node.js and the package manager are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.config)
			if err != nil {
				return err
			}
			for _, w := range cfg.Warnings {
				fmt.Fprintln(a.stderr, warningStyle.Render("! "+w))
			}
			return a.doctor(cmd.Context(), cfg)
		},
	}
}

func (a *app) doctor(ctx context.Context, cfg *config.Config) error {
	tc, err := installer.CheckToolchain(ctx, a.runner, cfg.PackageManager, cfg.MinNodeVersion)
	if err != nil {
		return err
	}

	nodeStatus := successStyle.Render("ok")
	if !tc.NodeSupported() {
		nodeStatus = errorStyle.Render(fmt.Sprintf("requires >= %s", tc.MinNode))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TOOL", "VERSION", "STATUS").
		Row("node", tc.Node.String(), nodeStatus).
		Row(cfg.PackageManager, tc.PackageManager.String(), successStyle.Render("ok"))
	fmt.Fprintln(a.stdout, t.String())

	if !tc.NodeSupported() {
		return fmt.Errorf("node %s is older than the required %s", tc.Node, tc.MinNode)
	}
	return nil
}
