package scene

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/opening"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

// writePlanFixture writes a 100x100 floorplan: kitchen left of a divider,
// bedroom right, a door on the divider and a window slot on the left wall.
// Room type indices follow the default label list (0 outside, 1 kitchen,
// 2 bedroom).
func writePlanFixture(t *testing.T) string {
	t.Helper()
	rows := []string{
		"128\t128",
		"5",
		"0\t0\t100\t0\t0\t1",
		"100\t0\t100\t100\t0\t2",
		"100\t100\t0\t100\t0\t2",
		"0\t100\t0\t0\t0\t1",
		"50\t0\t50\t100\t2\t1",
		"50\t40\t50\t60\tdoor\t1\t1",
		"0\t20\t0\t35\tdoor\t1\t1",
		"10\t40\t20\t50\ttoilet\t1\t1",
	}
	path := filepath.Join(t.TempDir(), "fixture.txt")
	content := ""
	for _, row := range rows {
		content += row + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertDividedFloorplan(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	p := NewPipeline(cfg, zap.NewNop())

	res, err := p.Convert("fixture", writePlanFixture(t), "")
	require.NoError(t, err)
	assert.Empty(t, res.Anomalies)

	sc := res.Scene
	require.Len(t, sc.Rooms, 2)
	assert.Equal(t, "kitchen", sc.Rooms[0].Label, "rooms sort west to east")
	assert.Equal(t, "bedroom", sc.Rooms[1].Label)
	assert.InDelta(t, 5000.0, sc.Rooms[0].Area, 1e-6)
	assert.InDelta(t, 5000.0, sc.Rooms[1].Area, 1e-6)

	// Outer walls split at the divider junctions: 2+2+1+1+1.
	assert.Len(t, sc.Walls, 7)

	require.Len(t, sc.Openings, 2)
	byClass := map[string]schemas.Opening{}
	for _, o := range sc.Openings {
		byClass[o.Class] = o
	}
	door, ok := byClass[opening.ClassDoor]
	require.True(t, ok)
	assert.Len(t, door.RoomIDs, 2, "divider door connects both rooms")
	window, ok := byClass[opening.ClassWindow]
	require.True(t, ok)
	assert.Len(t, window.RoomIDs, 1, "shell opening touches one room")

	// One interior door yields two directed edges, the window none.
	assert.Len(t, sc.Adjacency, 2)

	require.Len(t, res.Objects, 1)
	assert.Equal(t, "toilet", res.Objects[0].Type)

	// Arch: 7 walls + floor and ceiling per room.
	assert.Len(t, res.Arch.Elements, 11)
	assert.Len(t, res.Arch.Rooms, 2)
	assert.Len(t, res.Arch.RDR, 2)
}

func TestConvertIsDeterministic(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	p := NewPipeline(cfg, zap.NewNop())
	path := writePlanFixture(t)

	res1, err := p.Convert("fixture", path, "")
	require.NoError(t, err)
	res2, err := p.Convert("fixture", path, "")
	require.NoError(t, err)

	json1, err := json.Marshal(res1.SceneFile)
	require.NoError(t, err)
	json2, err := json.Marshal(res2.SceneFile)
	require.NoError(t, err)
	assert.Equal(t, json1, json2, "reconversion is byte identical")
}

func TestConvertFlipYMirrorsGeometry(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Arch.ScaleFactor = 0.05
	cfg.Arch.FlipY = true
	p := NewPipeline(cfg, zap.NewNop())

	res, err := p.Convert("fixture", writePlanFixture(t), "")
	require.NoError(t, err)

	sc := res.Scene
	require.Len(t, sc.Rooms, 2)
	assert.Equal(t, "kitchen", sc.Rooms[0].Label)
	assert.InDelta(t, 12.5, sc.Rooms[0].Area, 1e-6, "area scales with the square of the factor")
	for _, room := range sc.Rooms {
		assert.Less(t, room.Centroid[1], 0.0, "image y maps to negative metric y")
	}
	require.Len(t, sc.Openings, 2)
}

func TestConvertReportsUnmatchedOpening(t *testing.T) {
	t.Parallel()
	rows := []string{
		"128\t128",
		"4",
		"0\t0\t100\t0\t0\t1",
		"100\t0\t100\t100\t0\t1",
		"100\t100\t0\t100\t0\t1",
		"0\t100\t0\t0\t0\t1",
		// Door icon floating in the middle of the room.
		"45\t45\t55\t55\tdoor\t1\t1",
	}
	path := filepath.Join(t.TempDir(), "floating.txt")
	content := ""
	for _, row := range rows {
		content += row + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := testConfig(t)
	p := NewPipeline(cfg, zap.NewNop())
	res, err := p.Convert("floating", path, "")
	require.NoError(t, err)

	assert.Empty(t, res.Scene.Openings)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, schemas.AnomalyUnmatchedOpening, res.Anomalies[0].Kind)
	// The icon degrades to an object box.
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "door", res.Objects[0].Type)
}

func TestWriteArtifacts(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.Output.RoomJSON = true
	p := NewPipeline(cfg, zap.NewNop())

	res, err := p.Convert("fixture", writePlanFixture(t), "")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, res.Write(dir, cfg.Output))

	for _, name := range []string{"arch.json", "scene.json", "objectaabb.json", "rooms.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "anomalies.json"))
	assert.True(t, os.IsNotExist(err), "clean runs write no anomaly file")

	var arch schemas.ArchFile
	data, err := os.ReadFile(filepath.Join(dir, "arch.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &arch))
	assert.Equal(t, "fixture", arch.ID)
	assert.Equal(t, cfg.Arch.Version, arch.Version)
}
