package types

import "fmt"

// Stage is a lifecycle phase of a fabric. Busy is both the initial
// persisted stage and the per-frame report used while transients settle.
type Stage int

// Fabric stages in lifecycle order.
const (
	StageBusy Stage = iota
	StageGrowing
	StageShaping
	StageSlack
	StageRealizing
	StageRealized
)

var stageNames = map[Stage]string{
	StageBusy:      "busy",
	StageGrowing:   "growing",
	StageShaping:   "shaping",
	StageSlack:     "slack",
	StageRealizing: "realizing",
	StageRealized:  "realized",
}

// Stages lists every stage for enumeration.
var Stages = []Stage{
	StageBusy,
	StageGrowing,
	StageShaping,
	StageSlack,
	StageRealizing,
	StageRealized,
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Valid reports whether s is one of the declared stages.
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// ParseStage maps a stage name to its Stage.
// Returns ErrInvalidStage for unknown names.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if stageNames[s] == name {
			return s, nil
		}
	}
	return StageBusy, fmt.Errorf("%w: %q", ErrInvalidStage, name)
}

// MarshalText encodes the stage by name for JSON and YAML.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStage, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
