// seehuhn.de/go/viewcut - visibility analysis for 2D drawings of 3D scenes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Command viewcut determines the visible objects of a scene file, as seen
// by a camera, and the pixels each of them covers in the drawing.
//
// Usage:
//
//	viewcut [flags] scene.yaml [pchb] name[;name...]...
//
// One of the names must be the camera.  Without further names the whole
// frame is scanned, otherwise only the regions of the named objects.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"seehuhn.de/go/viewcut"
	"seehuhn.de/go/viewcut/config"
	"seehuhn.de/go/viewcut/internal/diag"
	"seehuhn.de/go/viewcut/scene"
	"seehuhn.de/go/viewcut/subject"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(status)
}

// command holds the settings of one run of the program.
type command struct {
	sceneFile string
	args      *config.Args
	conf      *config.Config
	out       io.Writer
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("viewcut", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: viewcut [flags] scene.yaml [pchb] name[;name...]...")
		fs.PrintDefaults()
	}
	configFile := fs.StringP("config", "c", "", "configuration file (default ~/.config/viewcut/config.toml)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	dumpDir := fs.String("dump", "", "directory to write every render to, as PNG")
	watch := fs.BoolP("watch", "w", false, "run again whenever the scene file changes")
	args := &config.Args{}
	args.Register(fs)

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return fail(stderr, fmt.Errorf("%w: %w", config.ErrArgument, err))
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return diag.CodeSelection.ExitStatus()
	}
	if err := args.Finish(fs.Args()[1:]); err != nil {
		return fail(stderr, err)
	}

	var conf *config.Config
	var err error
	if *configFile != "" {
		conf, err = config.LoadFile(*configFile)
	} else {
		conf, err = config.LoadDefaultFile()
	}
	if err != nil {
		return fail(stderr, err)
	}
	if *logLevel != "" {
		conf.LogLevel = *logLevel
	}
	if *dumpDir != "" {
		conf.DumpDir = *dumpDir
	}
	level, err := conf.Level()
	if err != nil {
		return fail(stderr, err)
	}
	viewcut.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	c := &command{
		sceneFile: fs.Arg(0),
		args:      args,
		conf:      conf,
		out:       stdout,
	}
	if *watch {
		err = c.watch(ctx)
	} else {
		err = c.invoke(ctx)
	}
	if err != nil {
		return fail(stderr, err)
	}
	return 0
}

func fail(w io.Writer, err error) int {
	code := diag.Classify(err)
	fmt.Fprintf(w, "viewcut: %v\n", err)
	diag.Logger().Debug("invocation failed", "code", string(code))
	return code.ExitStatus()
}

// invoke loads the scene file and runs one invocation.
func (c *command) invoke(ctx context.Context) error {
	s, err := scene.LoadFile(c.sceneFile)
	if err != nil {
		return err
	}
	opts, err := c.options(s)
	if err != nil {
		return err
	}
	d, err := viewcut.Run(ctx, s, opts)
	if err != nil {
		return err
	}
	return report(c.out, d)
}

// options combines the configuration and the arguments into the options
// for an invocation on s.
func (c *command) options(s *scene.Scene) (*viewcut.Options, error) {
	cam, err := viewcut.CameraObject(s, c.args.Names)
	if err != nil {
		return nil, err
	}

	res := c.args.Resolution
	if res == nil {
		res, err = config.ParseResolution(c.conf.Resolution)
		if err != nil {
			return nil, err
		}
	}
	styles := c.args.Styles
	if styles == 0 {
		styles, err = subject.ParseStyles(c.conf.Styles)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
		}
	}
	cachePath, err := c.conf.CachePath(s.Name, cam.Name)
	if err != nil {
		return nil, err
	}
	rangesPath, err := c.conf.RangesPath(s.Name, cam.Name)
	if err != nil {
		return nil, err
	}

	return &viewcut.Options{
		Names:      c.args.Names,
		Styles:     styles,
		Resolution: res,
		DrawAll:    c.args.DrawAll,
		Width:      c.conf.Width,
		Height:     c.conf.Height,
		Scale:      c.conf.Scale,
		CachePath:  cachePath,
		RangesPath: rangesPath,
		DumpDir:    c.conf.DumpDir,
	}, nil
}
