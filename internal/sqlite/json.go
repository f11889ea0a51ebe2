package sqlite

import "github.com/mesh-intelligence/pretenst/pkg/types"

// runJSON is one line of runs.jsonl.
type runJSON struct {
	RunID      string      `json:"run_id"`
	Blueprint  string      `json:"blueprint"`
	World      types.World `json:"world"`
	Stage      string      `json:"stage"`
	Frames     int         `json:"frames"`
	Age        int         `json:"age"`
	CreatedAt  string      `json:"created_at"`
	FinishedAt *string     `json:"finished_at"`
}

// frameJSON is one line of frames.jsonl.
type frameJSON struct {
	RunID     string          `json:"run_id"`
	Frame     int             `json:"frame"`
	Age       int             `json:"age"`
	Reported  string          `json:"reported"`
	Persisted string          `json:"persisted"`
	Settling  bool            `json:"settling"`
	Snapshot  *types.Snapshot `json:"snapshot"`
}

func toFrameJSON(rec types.FrameRecord) frameJSON {
	return frameJSON{
		RunID:     rec.RunID,
		Frame:     rec.Frame,
		Age:       rec.Age,
		Reported:  rec.Reported.String(),
		Persisted: rec.Persisted.String(),
		Settling:  rec.Settling,
		Snapshot:  rec.Snapshot,
	}
}
