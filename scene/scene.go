// Package scene loads scene descriptions and converts them to the variant
// selections of the trace and render programs.
package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/rupor-github/gencfg"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/soypat/sail"
)

//go:embed cornellbox.yaml.tmpl
var defaultTmpl []byte

type (
	// Object is a single scene object. Only the variant names matter for
	// program assembly; object data is packed elsewhere.
	Object struct {
		Shape    string `yaml:"shape" validate:"required"`
		Material string `yaml:"material" validate:"required"`
		// Texture defaults to the uniform color texture.
		Texture string `yaml:"texture,omitempty"`
		Light   bool   `yaml:"light,omitempty"`
	}

	FilterConfig struct {
		// Name defaults to no filtering.
		Name   string            `yaml:"name,omitempty"`
		Params map[string]string `yaml:"params,omitempty"`
	}

	Scene struct {
		Version int `yaml:"version" validate:"eq=1"`
		// Integrator defaults to path tracing.
		Integrator string       `yaml:"integrator,omitempty"`
		Filter     FilterConfig `yaml:"filter"`
		Objects    []Object     `yaml:"objects" validate:"dive"`
	}
)

// Parse decodes and validates a YAML scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := gencfg.Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &s, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in Cornell box scene.
func Default() (*Scene, error) {
	data, err := Template()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Template returns the processed built-in scene YAML.
func Template() ([]byte, error) {
	data, err := gencfg.Process(defaultTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to process scene template: %w", err)
	}
	return data, nil
}

// Dump encodes s as YAML.
func Dump(s *Scene) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene to yaml: %v", err)
	}
	return data, nil
}

// Ordered returns the objects in intersection order: lights first, each light
// placed ahead of the lights before it, followed by the remaining objects in
// declaration order.
func (s *Scene) Ordered() []Object {
	var lights, others []Object
	for _, ob := range s.Objects {
		if ob.Light {
			lights = append(lights, ob)
		} else {
			others = append(others, ob)
		}
	}
	slices.Reverse(lights)
	return append(lights, others...)
}

// TraceConfig returns the trace program variants used by the scene. Each
// variant appears once, in the order it is first used by [Scene.Ordered] objects.
// All unknown variant names are reported together.
func (s *Scene) TraceConfig() (sail.TraceConfig, error) {
	var (
		cfg  sail.TraceConfig
		errs error
		err  error
	)
	if s.Integrator != "" {
		cfg.Integrator, err = sail.ParseIntegrator(s.Integrator)
		errs = multierr.Append(errs, err)
	}
	for i, ob := range s.Ordered() {
		shape, err := sail.ParseShape(ob.Shape)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("object %d: %w", i, err))
		} else if !slices.Contains(cfg.Shapes, shape) {
			cfg.Shapes = append(cfg.Shapes, shape)
		}
		mat, err := sail.ParseMaterial(ob.Material)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("object %d: %w", i, err))
		} else if !slices.Contains(cfg.Materials, mat) {
			cfg.Materials = append(cfg.Materials, mat)
		}
		tex := sail.TextureUniformColor
		var texErr error
		if ob.Texture != "" {
			tex, texErr = sail.ParseTexture(ob.Texture)
		}
		if texErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("object %d: %w", i, texErr))
		} else if tex.HasFragment() && !slices.Contains(cfg.Textures, tex) {
			cfg.Textures = append(cfg.Textures, tex)
		}
	}
	if errs != nil {
		return sail.TraceConfig{}, errs
	}
	return cfg, nil
}

// RenderConfig returns the render program filter of the scene. Filter
// parameters are emitted in key order.
func (s *Scene) RenderConfig() (sail.RenderConfig, error) {
	var cfg sail.RenderConfig
	if s.Filter.Name != "" {
		f, err := sail.ParseFilter(s.Filter.Name)
		if err != nil {
			return cfg, err
		}
		cfg.Filter = f
	}
	keys := make([]string, 0, len(s.Filter.Params))
	for k := range s.Filter.Params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		cfg.FilterParams = append(cfg.FilterParams, sail.Param{Key: k, Value: s.Filter.Params[k]})
	}
	return cfg, nil
}
