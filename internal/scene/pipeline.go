package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/api/schemas"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/geometry"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/opening"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/r2v"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/wallgraph"
)

// Pipeline converts one detector output file into a scene. An instance is
// read-only after construction and safe to share across worker goroutines.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

func NewPipeline(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Result carries everything a conversion produced, including the recorded
// anomaly list of non-fatal problems.
type Result struct {
	ID        string
	Scene     *schemas.Scene
	Arch      *schemas.ArchFile
	SceneFile *schemas.SceneFile
	Objects   []schemas.ObjectBox
	Summaries []schemas.RoomSummary
	Graph     *wallgraph.Graph
	Faces     *wallgraph.FaceSet
	Openings  *opening.Resolution
	Anomalies []schemas.Anomaly
}

// Convert runs the reconstruction for one floorplan. outputPath names the
// detector output file; annotPath optionally names the annotation file that
// supplies room labels and object icons, empty to derive both from the
// output file alone.
func (p *Pipeline) Convert(id, outputPath, annotPath string) (*Result, error) {
	log := p.log.With(zap.String("floorplan", id))

	plan, err := r2v.LoadOutputFile(outputPath, p.cfg.Labels.RoomTypes)
	if err != nil {
		return nil, err
	}
	annotPlan := plan
	if annotPath != "" {
		annotPlan, err = r2v.LoadAnnotFile(annotPath)
		if err != nil {
			return nil, err
		}
	}

	norm, err := NewNormalizer(p.cfg.Arch)
	if err != nil {
		return nil, err
	}

	res := &Result{ID: id}

	segs := p.wallSegments(plan, norm)
	joinMargin := norm.Length(p.cfg.Parser.WallJoinMargin)
	if p.cfg.Parser.SplitWalls.Enabled {
		var truncated bool
		segs, truncated = wallgraph.SplitWalls(segs, joinMargin, p.cfg.Parser.SplitWalls.MaxIter)
		if truncated {
			res.record(schemas.AnomalySplitTruncated,
				fmt.Sprintf("wall splitting stopped after %d iterations", p.cfg.Parser.SplitWalls.MaxIter))
		}
	}

	g, skipped := wallgraph.Build(segs, norm.Length(p.cfg.Parser.CornerSnapTolerance))
	if skipped > 0 {
		log.Debug("dropped zero-length wall segments", zap.Int("count", skipped))
	}
	if len(g.Walls) == 0 {
		return nil, fmt.Errorf("floorplan %s: no usable wall segments", id)
	}

	if p.cfg.Parser.StraightenWalls.Enabled {
		moved, truncated := g.Straighten(
			p.cfg.Parser.StraightenWalls.CutoffGradient,
			p.cfg.Parser.StraightenWalls.MaxIter)
		if moved > 0 {
			log.Debug("straightened walls", zap.Int("corner_moves", moved))
		}
		if truncated {
			res.record(schemas.AnomalyStraightenTruncated,
				fmt.Sprintf("wall straightening stopped after %d iterations", p.cfg.Parser.StraightenWalls.MaxIter))
		}
	}

	faces := wallgraph.ExtractFaces(g, norm.WindingSign(), p.cfg.Parser.FaceWalkMaxSteps)
	for _, werr := range faces.Errors {
		res.record(schemas.AnomalyTopology, werr.Error())
	}
	log.Info("extracted room faces",
		zap.Int("corners", len(g.Corners)),
		zap.Int("walls", len(g.Walls)),
		zap.Int("rooms", len(faces.Faces)))

	openingRecords := plan.Openings()
	iconBoxes := make([]geometry.BBox, 0, len(openingRecords))
	for _, rec := range openingRecords {
		iconBoxes = append(iconBoxes, norm.BBox(rec.Box))
	}
	openings := opening.Resolve(g, iconBoxes,
		p.cfg.Arch.DefaultWallThickness,
		norm.Length(p.cfg.Parser.OpeningMatchTolerance))
	openings.Attach(faces)
	if p.cfg.Output.ClassifyOpenings {
		var entrances []geometry.BBox
		for _, rec := range annotPlan.Entrances() {
			entrances = append(entrances, norm.BBox(rec.Box))
		}
		openings.Classify(g, entrances)
	} else {
		for i := range openings.Openings {
			openings.Openings[i].Class = opening.ClassDoor
		}
	}
	for _, oerr := range openings.Errors {
		switch oerr.(type) {
		case *opening.UnmatchedOpeningError:
			res.record(schemas.AnomalyUnmatchedOpening, oerr.Error())
		case *opening.UnattachedWallError:
			res.record(schemas.AnomalyUnattachedWall, oerr.Error())
		default:
			return nil, oerr
		}
	}

	labels, types := assignLabels(faces.Faces, annotPlan.RoomAnnotations(),
		p.cfg.Labels, p.cfg.Parser.RoomLabelOverlap, norm)

	sc := Assemble(Input{
		ID:       id,
		Graph:    g,
		Faces:    faces,
		Openings: openings,
		Labels:   labels,
		Types:    types,
	})
	if !p.cfg.Output.RDR {
		sc.Adjacency = nil
	}

	res.Scene = sc
	res.Graph = g
	res.Faces = faces
	res.Openings = openings
	res.Arch = BuildArchFile(sc, p.cfg.Arch)
	res.SceneFile = BuildSceneFile(res.Arch, p.cfg.Arch)
	res.Summaries = Summaries(sc)
	if p.cfg.Output.Objects {
		var fallback []geometry.BBox
		for _, icon := range openings.Unmatched {
			fallback = append(fallback, openingRecords[icon].Box)
		}
		res.Objects = BuildObjects(annotPlan.Objects(), fallback, norm)
	}

	if len(res.Anomalies) > 0 {
		log.Warn("conversion completed with anomalies", zap.Int("count", len(res.Anomalies)))
	}
	return res, nil
}

// wallSegments normalizes the detector wall rows. Mirroring the y axis
// swaps which side of a wall is left and which is right, so the side labels
// swap with it.
func (p *Pipeline) wallSegments(plan *r2v.Plan, norm *Normalizer) []wallgraph.Segment {
	var segs []wallgraph.Segment
	for _, rec := range plan.Walls() {
		seg := wallgraph.Segment{
			P1:            norm.Point(rec.Box.Min),
			P2:            norm.Point(rec.Box.Max),
			Thickness:     p.cfg.Arch.DefaultWallThickness,
			LeftRoomType:  rec.LeftRoomType,
			RightRoomType: rec.RightRoomType,
		}
		if norm.FlipY {
			seg.LeftRoomType, seg.RightRoomType = seg.RightRoomType, seg.LeftRoomType
		}
		segs = append(segs, seg)
	}
	return segs
}

func (r *Result) record(kind schemas.AnomalyKind, detail string) {
	r.Anomalies = append(r.Anomalies, schemas.Anomaly{Kind: kind, Detail: detail})
}
