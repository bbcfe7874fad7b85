package scene

import (
	"encoding/json"
	"os"
)

// Plan is the resolved work of a run, dumped by --debug.
type Plan struct {
	Dir     string   `json:"dir"`
	Loop    int      `json:"loop"`
	Scale   int      `json:"scale"`
	Steps   []Step   `json:"steps"`
	Save    bool     `json:"save"`
	Output  string   `json:"output"`
	Profile *Profile `json:"profile"`
}

// WriteDebugJSON writes the plan as indented JSON.
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
