//go:build !tinygo && cgo

package glcompile

import (
	"errors"
	"log"
	"os"
	"runtime"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sail"
	"github.com/soypat/sail/scene"
)

var glReady bool

// GL calls must run on the main thread.
func TestMain(m *testing.M) {
	runtime.LockOSThread()
	term, err := Init()
	if err != nil {
		log.Println("skipping GL tests:", err)
	} else {
		glReady = true
		log.Println("GL context", Version())
	}
	code := m.Run()
	if term != nil {
		term()
	}
	runtime.UnlockOSThread()
	os.Exit(code)
}

func requireGL(t *testing.T) {
	if !glReady {
		t.Skip("no GL context")
	}
}

func TestCompileError(t *testing.T) {
	requireGL(t)
	_, err := Compile(Source{
		Vertex:   "#version 300 es\nvoid main(){gl_Position = vec4(0.0);}\n",
		Fragment: "#version 300 es\nprecision highp float;\nout vec4 c;\nvoid main(){c = undeclared;}\n",
	})
	var cerr *CompileError
	if !errors.As(err, &cerr) || cerr.Log == "" {
		t.Fatalf("want compile error with driver log, got %v", err)
	}
}

func TestDefaultScenePrograms(t *testing.T) {
	requireGL(t)
	s, err := scene.Default()
	if err != nil {
		t.Fatal(err)
	}
	tcfg, err := s.TraceConfig()
	if err != nil {
		t.Fatal(err)
	}
	trace, err := sail.TracePrograms(tcfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Compile(Source{Vertex: trace.Vertex, Fragment: trace.Fragment})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Delete()
	if err := p.BindSamplers(sail.TraceResources()); err != nil {
		t.Error(err)
	}
	u := sail.TraceUniforms{N: 3, LN: 1, TN: 4, TextureWeight: 0.5, Matrix: ms3.ScalingMat4(ms3.Vec{X: 1, Y: 1, Z: 1}), Eye: ms3.Vec{Z: 2.5}}
	if err := p.SetTraceUniforms(&u); err != nil {
		t.Error(err)
	}

	rcfg, err := s.RenderConfig()
	if err != nil {
		t.Fatal(err)
	}
	render, err := sail.RenderPrograms(rcfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Check(render); err != nil {
		t.Error(err)
	}
}
