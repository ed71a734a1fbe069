// Command sail assembles and checks the GLSL programs of a sail scene.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/soypat/sail/scene"
)

const version = "0.1.0"

func init() {
	// GLFW and GL calls of the check command must run on the main thread.
	runtime.LockOSThread()
}

// initializeAppContext loads the scene and prepares logging after the command
// line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := envFromContext(ctx)
	env.Log = newLogger(cmd.Bool("debug"))
	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))

	var err error
	env.SceneFile = cmd.String("scene")
	if env.SceneFile == "" {
		env.Log.Debug("Using built-in scene (no scene file)")
		env.Scene, err = scene.Default()
	} else {
		env.Scene, err = scene.Load(env.SceneFile)
	}
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare scene: %w", err)
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	_ = env.Log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	env.Log.Error("Program ended with error", zap.Error(err))
	errWasHandled = true
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "sail",
		Usage:           "GLSL program assembler for the sail path tracer",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scene", Aliases: []string{"s"}, Usage: "load scene from `FILE` (YAML), built-in Cornell box when absent"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Writes the trace and render program stages of the scene",
				Action: generate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write stage files to `DIR` instead of STDOUT"},
				},
			},
			{
				Name:   "check",
				Usage:  "Compiles and links the scene programs with the OpenGL driver",
				Action: check,
			},
			{
				Name:   "variants",
				Usage:  "Lists variant names per role",
				Action: listVariants,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "fragments", Aliases: []string{"f"}, Usage: "list the registered fragments of every generator instead"},
				},
			},
			{
				Name:  "dumpscene",
				Usage: "Dumps either the built-in or the loaded scene (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output the built-in scene template"},
				},
				Action:    dumpScene,
				ArgsUsage: "DESTINATION",
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
