package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
)

// Write serializes the conversion artifacts into dir, creating it if
// needed. Which files appear follows the output configuration; anomalies
// are written whenever any were recorded.
func (r *Result) Write(dir string, out config.OutputConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "arch.json"), r.Arch); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "scene.json"), r.SceneFile); err != nil {
		return err
	}
	if out.Objects {
		payload := struct {
			Objects any `json:"objects"`
		}{Objects: r.Objects}
		if r.Objects == nil {
			payload.Objects = []any{}
		}
		if err := writeJSON(filepath.Join(dir, "objectaabb.json"), payload); err != nil {
			return err
		}
	}
	if out.RoomJSON {
		if err := writeJSON(filepath.Join(dir, "rooms.json"), r.Summaries); err != nil {
			return err
		}
	}
	if len(r.Anomalies) > 0 {
		if err := writeJSON(filepath.Join(dir, "anomalies.json"), r.Anomalies); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
