// Command commix is a demo front-end for the system package: it loads
// a YAML configuration tree, runs one of the four lifecycle
// transitions against it, and prints the resulting component statuses.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/crimeminister/commix/internal/configload"
	"github.com/crimeminister/commix/system"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Error("commix failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name: "commix",
		Usage: "run lifecycle transitions over a data-driven component system",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace, debug, info, warn, error"},
		},
		Commands: []*cli.Command{
			transitionCommand("init", system.Init),
			haltCommand(),
			suspendCommand(),
			transitionCommand("resume", afterInit(system.Resume)),
			transitionCommand("resume-or-init", afterInit(system.ResumeOrInit)),
		},
	}
}

type initLikeFunc func(context.Context, *system.Runtime, *system.Registry, any,...system.Path) (*system.System, error)

type systemFunc func(context.Context, *system.Runtime, *system.Registry, *system.System, ...system.Path) (*system.System, error)

// afterInit adapts a transition that operates on an existing
// *system.System (Resume, ResumeOrInit) to an initLikeFunc: it runs
// Init over the loaded config first, then the transition on the result.
func afterInit(run systemFunc) initLikeFunc {
	return func(ctx context.Context, rt *system.Runtime, reg *system.Registry, config any, targets ...system.Path) (*system.System, error) {
		sys, err := system.Init(ctx, rt, reg, config)
		if err != nil {
			return sys, err
		}
		return run(ctx, rt, reg, sys, targets...)
	}
}

func transitionCommand(name string, run initLikeFunc) *cli.Command {
	return &cli.Command{
		Name: name,
		Usage: fmt.Sprintf("run the %s transition", name),
		ArgsUsage: "<system.yaml>",
		Flags: []cli.Flag{targetsFlag()},
		Action: func(c *cli.Context) error {
			root, rt, err := loadAndRuntime(c)
			if err != nil {
				return err
			}
			reg := system.NewRegistry()
			sys, err := run(c.Context, rt, reg, root, targetPaths(c)...)
			return reportResult(sys, err)
		},
	}
}

// system.Halt and system.Suspend take a *system.System (not raw
// config), since only Init expands: every reverse transition
// after the first init operates on the System that Init (or a prior
// Halt/Suspend/Resume) produced. This demo front-end re-derives that
// System by running Init first, matching the pattern real callers use
// (see system/facade_test.go's TestRoundTripHalt).
func haltCommand() *cli.Command {
	return &cli.Command{
		Name: "halt",
		Usage: "run the halt transition",
		ArgsUsage: "<system.yaml>",
		Flags: []cli.Flag{targetsFlag()},
		Action: func(c *cli.Context) error {
			root, rt, err := loadAndRuntime(c)
			if err != nil {
				return err
			}
			reg := system.NewRegistry()
			sys, err := system.Init(c.Context, rt, reg, root)
			if err != nil {
				return reportResult(sys, err)
			}
			sys, err = system.Halt(c.Context, rt, reg, sys, targetPaths(c)...)
			return reportResult(sys, err)
		},
	}
}

func suspendCommand() *cli.Command {
	return &cli.Command{
		Name: "suspend",
		Usage: "run the suspend transition",
		ArgsUsage: "<system.yaml>",
		Flags: []cli.Flag{targetsFlag()},
		Action: func(c *cli.Context) error {
			root, rt, err := loadAndRuntime(c)
			if err != nil {
				return err
			}
			reg := system.NewRegistry()
			sys, err := system.Init(c.Context, rt, reg, root)
			if err != nil {
				return reportResult(sys, err)
			}
			sys, err = system.Suspend(c.Context, rt, reg, sys, targetPaths(c)...)
			return reportResult(sys, err)
		},
	}
}

func targetsFlag() cli.Flag {
	return &cli.StringSliceFlag{Name: "target", Usage: "restrict the transition to this component path (repeatable)"}
}

func targetPaths(c *cli.Context) []system.Path {
	raw := c.StringSlice("target")
	out := make([]system.Path, len(raw))
	for i, s := range raw {
		out[i] = system.Path{s}
	}
	return out
}

func loadAndRuntime(c *cli.Context) (map[string]any, *system.Runtime, error) {
	if c.NArg() != 1 {
		return nil, nil, cli.Exit("expected exactly one argument: the path to a system YAML file", 1)
	}

	root, err := configload.Load(c.Args().Get(0))
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.NewEntry(logrus.StandardLogger())
	if lvl, err := logrus.ParseLevel(c.String("log-level")); err == nil {
		logger.Logger.SetLevel(lvl)
	}
	rt := system.NewRuntime(logger)
	rt.Trace = func(msg string) { logger.Debug(msg) }

	return root, rt, nil
}

func reportResult(sys *system.System, err error) error {
	if sys == nil {
		return err
	}
	for _, p := range sortedComponentPaths(sys) {
		comp, ok := system.Lookup(sys, p)
		c, isComp := comp.(*system.Component)
		if !ok || !isComp {
			continue
		}
		fmt.Printf("%-40s %s\n", p.String(), c.Status)
	}
	if err != nil {
		return err
	}
	return nil
}

func sortedComponentPaths(sys *system.System) []system.Path {
	var paths []system.Path
	var walk func(v any, p system.Path)
	walk = func(v any, p system.Path) {
		switch node := v.(type) {
		case *system.Component:
			paths = append(paths, p)
		case map[string]any:
			for k, vv := range node {
				walk(vv, p.Child(k))
			}
		}
	}
	walk(system.Root(sys), system.Path{})
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })
	return paths
}
