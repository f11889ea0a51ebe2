// Package blueprint reads fabric descriptions from YAML, validates them and
// builds fabrics from them. A few blueprints are compiled in.
package blueprint

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pretenst/internal/fabric"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Defaults applied to intervals that leave stiffness or density unset.
const (
	DefaultStiffness = 1.0
	DefaultDensity   = 1.0
)

// Blueprint describes the joints, faces and intervals of a fabric.
type Blueprint struct {
	Name      string         `yaml:"name"`
	Joints    [][3]float64   `yaml:"joints"`
	Faces     [][3]int       `yaml:"faces,omitempty"`
	Intervals []IntervalSpec `yaml:"intervals"`
}

// IntervalSpec describes one interval. Exactly one of Omega and Face is set.
type IntervalSpec struct {
	Alpha     int                `yaml:"alpha"`
	Omega     *int               `yaml:"omega,omitempty"`
	Face      *int               `yaml:"face,omitempty"`
	Role      types.IntervalRole `yaml:"role"`
	Length    float64            `yaml:"length"`
	Stiffness float64            `yaml:"stiffness,omitempty"`
	Density   float64            `yaml:"density,omitempty"`
	Countdown int                `yaml:"countdown,omitempty"`
}

// UnmarshalYAML fills stiffness and density with their defaults when the
// keys are absent. An explicit value, zero included, is kept for Validate.
func (spec *IntervalSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain IntervalSpec
	decoded := plain{Stiffness: DefaultStiffness, Density: DefaultDensity}
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*spec = IntervalSpec(decoded)
	return nil
}

// Parse decodes a YAML blueprint, applying interval defaults for absent
// keys. The result is not validated.
func Parse(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidBlueprint, err)
	}
	return &bp, nil
}

// Load reads and parses the blueprint at path.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint: %w", err)
	}
	return Parse(data)
}

// Builtin returns the compiled-in blueprint with the given name.
// Returns ErrUnknownBlueprint if there is none.
func Builtin(name string) (*Blueprint, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownBlueprint, name)
	}
	return Parse(data)
}

// BuiltinNames lists the compiled-in blueprints in name order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve loads a builtin by name, or a file when ref names one.
func Resolve(ref string) (*Blueprint, error) {
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, os.PathSeparator) {
		return Load(ref)
	}
	return Builtin(ref)
}

// Validate checks every index and physical parameter. It returns an error
// wrapping ErrInvalidBlueprint that names the first offending element.
func (bp *Blueprint) Validate() error {
	if bp.Name == "" {
		return fmt.Errorf("%w: name must not be empty", types.ErrInvalidBlueprint)
	}
	if len(bp.Joints) == 0 {
		return fmt.Errorf("%w: no joints", types.ErrInvalidBlueprint)
	}
	joints := len(bp.Joints)
	for i, face := range bp.Faces {
		for _, j := range face {
			if j < 0 || j >= joints {
				return fmt.Errorf("%w: face %d: joint %d out of range", types.ErrInvalidBlueprint, i, j)
			}
		}
	}
	for i, spec := range bp.Intervals {
		if err := spec.validate(joints, len(bp.Faces)); err != nil {
			return fmt.Errorf("%w: interval %d: %s", types.ErrInvalidBlueprint, i, err)
		}
	}
	return nil
}

func (spec IntervalSpec) validate(joints, faces int) error {
	switch {
	case spec.Alpha < 0 || spec.Alpha >= joints:
		return fmt.Errorf("alpha %d out of range", spec.Alpha)
	case (spec.Omega == nil) == (spec.Face == nil):
		return fmt.Errorf("exactly one of omega and face is required")
	case spec.Omega != nil && (*spec.Omega < 0 || *spec.Omega >= joints):
		return fmt.Errorf("omega %d out of range", *spec.Omega)
	case spec.Face != nil && (*spec.Face < 0 || *spec.Face >= faces):
		return fmt.Errorf("face %d out of range", *spec.Face)
	case !spec.Role.Valid():
		return fmt.Errorf("role %d is unknown", int(spec.Role))
	case spec.Length <= 0:
		return fmt.Errorf("length must be positive")
	case spec.Stiffness <= 0:
		return fmt.Errorf("stiffness must be positive")
	case spec.Density <= 0:
		return fmt.Errorf("density must be positive")
	case spec.Countdown < 0:
		return fmt.Errorf("countdown must not be negative")
	}
	return nil
}

// Build validates the blueprint and constructs a fabric in the Busy stage.
func (bp *Blueprint) Build() (*fabric.Fabric, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	f := fabric.New(len(bp.Joints))
	for _, j := range bp.Joints {
		f.AddJoint(j[0], j[1], j[2])
	}
	for _, face := range bp.Faces {
		f.AddFace(face[0], face[1], face[2])
	}
	for _, spec := range bp.Intervals {
		if spec.Face != nil {
			f.AddFaceInterval(spec.Alpha, *spec.Face, spec.Role, spec.Length, spec.Stiffness, spec.Density, spec.Countdown)
			continue
		}
		f.AddInterval(spec.Alpha, *spec.Omega, spec.Role, spec.Length, spec.Stiffness, spec.Density, spec.Countdown)
	}
	return f, nil
}
