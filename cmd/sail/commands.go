package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/soypat/sail"
	"github.com/soypat/sail/glcompile"
	"github.com/soypat/sail/scene"
)

type stageFile struct {
	name string
	src  string
}

// scenePrograms assembles the trace and render programs of the loaded scene.
func scenePrograms(env *localEnv) (trace, render sail.Programs, err error) {
	tcfg, err := env.Scene.TraceConfig()
	if err != nil {
		return trace, render, fmt.Errorf("unable to select trace variants: %w", err)
	}
	rcfg, err := env.Scene.RenderConfig()
	if err != nil {
		return trace, render, fmt.Errorf("unable to select render filter: %w", err)
	}
	if trace, err = sail.TracePrograms(tcfg, env.Log); err != nil {
		return trace, render, err
	}
	if render, err = sail.RenderPrograms(rcfg, env.Log); err != nil {
		return trace, render, err
	}
	return trace, render, nil
}

func generate(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	trace, render, err := scenePrograms(env)
	if err != nil {
		return err
	}
	files := []stageFile{
		{"trace.vert", trace.Vertex},
		{"trace.frag", trace.Fragment},
		{"render.vert", render.Vertex},
		{"render.frag", render.Fragment},
	}
	dir := cmd.String("out")
	if dir == "" {
		for _, f := range files {
			if _, err := fmt.Fprintf(os.Stdout, "// %s\n%s\n", f.name, f.src); err != nil {
				return fmt.Errorf("unable to write %s: %w", f.name, err)
			}
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory '%s': %w", dir, err)
	}
	for _, f := range files {
		fname := filepath.Join(dir, f.name)
		if err := os.WriteFile(fname, []byte(f.src), 0644); err != nil {
			return fmt.Errorf("unable to write stage file '%s': %w", fname, err)
		}
		env.Log.Info("Stage written", zap.String("file", fname), zap.Int("bytes", len(f.src)))
	}
	return nil
}

func check(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)
	trace, render, err := scenePrograms(env)
	if err != nil {
		return err
	}
	term, err := glcompile.Init()
	if err != nil {
		return fmt.Errorf("unable to create GL context: %w", err)
	}
	defer term()
	env.Log.Debug("GL context created", zap.String("version", glcompile.Version()))

	var errs error
	for _, p := range []struct {
		name  string
		progs sail.Programs
	}{{"trace", trace}, {"render", render}} {
		if err := glcompile.Check(p.progs); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s program: %w", p.name, err))
			continue
		}
		env.Log.Info("Program compiled", zap.String("program", p.name))
	}
	return errs
}

func listVariants(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("fragments") {
		return listFragments(os.Stdout)
	}
	roles := []struct {
		role  string
		names []string
	}{
		{"shape", names(sail.Shapes())},
		{"material", names(sail.Materials())},
		{"texture", names(sail.Textures())},
		{"integrator", names(sail.Integrators())},
		{"filter", names(sail.Filters())},
	}
	for _, r := range roles {
		if _, err := fmt.Fprintf(os.Stdout, "%-10s %s\n", r.role, strings.Join(r.names, " ")); err != nil {
			return err
		}
	}
	return nil
}

// listFragments writes one line per generator with its registered fragment names.
func listFragments(w io.Writer) error {
	for _, g := range sail.Generators() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", g.Name(), strings.Join(g.Names(), " ")); err != nil {
			return err
		}
	}
	return nil
}

func names[T fmt.Stringer](variants []T) []string {
	s := make([]string, len(variants))
	for i, v := range variants {
		s[i] = v.String()
	}
	return s
}

func dumpScene(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)
	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}
	if cmd.Bool("default") {
		state = "default"
		data, err = scene.Template()
	} else {
		state = "actual"
		data, err = scene.Dump(env.Scene)
	}
	if err != nil {
		return fmt.Errorf("unable to get scene: %w", err)
	}
	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputting scene", zap.String("state", state), zap.String("file", fname))
	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write scene: %w", err)
	}
	return nil
}
