package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/config"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/observability"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/rundb"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/scene"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/sketch"
	"github.com/3dlg-hcvc/r2v-to-plan2scene/internal/worker"
)

var (
	flagScaleFactor float64
	flagFlipY       bool
	flagAnnot       string
	flagNoPreviews  bool
	flagRoomJSON    bool
	flagSkipObjects bool
	flagSkipRDR     bool
	flagNoClassify  bool
	flagIndexDB     string
	flagConcurrency int
)

var convertCmd = &cobra.Command{
	Use:   "convert <output-dir> <r2v-output-file>...",
	Short: "Convert detector output files into arch/scene JSON",
	Long: `Convert reconstructs one scene per input file. Each floorplan gets a
subdirectory of <output-dir> named after the input file, holding arch.json,
scene.json and the optional artifacts.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Float64Var(&flagScaleFactor, "scale-factor", 0, "meters per source pixel (overrides config)")
	convertCmd.Flags().BoolVar(&flagFlipY, "flip-y", false, "mirror the y axis into a y-up frame")
	convertCmd.Flags().StringVar(&flagAnnot, "r2v-annot", "", "annotation file, or a directory of <name>.txt files")
	convertCmd.Flags().BoolVar(&flagNoPreviews, "no-previews", false, "skip preview sketches")
	convertCmd.Flags().BoolVar(&flagRoomJSON, "room-json", false, "write per-room summaries to rooms.json")
	convertCmd.Flags().BoolVar(&flagSkipObjects, "skip-objects", false, "skip the object bounding box output")
	convertCmd.Flags().BoolVar(&flagSkipRDR, "skip-rdr", false, "skip room-door-room adjacency edges")
	convertCmd.Flags().BoolVar(&flagNoClassify, "no-classify-openings", false, "emit every opening as a door")
	convertCmd.Flags().StringVar(&flagIndexDB, "index-db", "", "SQLite file indexing conversion runs")
	convertCmd.Flags().IntVar(&flagConcurrency, "concurrency", runtime.NumCPU(), "parallel conversions")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := applyFlags(cmd, *runConfig)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := observability.GetLogger()
	defer observability.Sync()

	outDir := args[0]
	jobs, err := buildJobs(args[1:])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var index *rundb.DB
	if cfg.Output.IndexDB != "" {
		index, err = rundb.Open(ctx, cfg.Output.IndexDB)
		if err != nil {
			return err
		}
		defer index.Close()
	}

	pipeline := scene.NewPipeline(&cfg, logger)
	pool := &worker.Pool{
		Concurrency: flagConcurrency,
		Log:         logger,
		Process: func(ctx context.Context, job worker.Job) (*scene.Result, error) {
			res, err := pipeline.Convert(job.ID, job.OutputPath, job.AnnotPath)
			if err != nil {
				return nil, err
			}
			dir := filepath.Join(outDir, job.ID)
			if err := res.Write(dir, cfg.Output); err != nil {
				return nil, err
			}
			if cfg.Output.Previews {
				if err := sketch.WritePreviews(res, dir); err != nil {
					return nil, err
				}
			}
			return res, nil
		},
	}

	logger.Info("starting conversion",
		zap.Int("floorplans", len(jobs)),
		zap.Int("concurrency", flagConcurrency),
		zap.String("output_dir", outDir))
	outcomes := pool.Run(ctx, jobs)

	failed := 0
	for _, oc := range outcomes {
		if oc.Err != nil {
			failed++
		}
		if index != nil {
			if err := recordOutcome(ctx, index, oc); err != nil {
				logger.Warn("failed to index run", zap.String("floorplan", oc.Job.ID), zap.Error(err))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(jobs))
	}
	return nil
}

// applyFlags layers explicit command line flags over the loaded
// configuration for this run.
func applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("scale-factor") {
		cfg.Arch.ScaleFactor = flagScaleFactor
	}
	if cmd.Flags().Changed("flip-y") {
		cfg.Arch.FlipY = flagFlipY
	}
	if cmd.Flags().Changed("room-json") {
		cfg.Output.RoomJSON = flagRoomJSON
	}
	if cmd.Flags().Changed("index-db") {
		cfg.Output.IndexDB = flagIndexDB
	}
	if flagNoPreviews {
		cfg.Output.Previews = false
	}
	if flagSkipObjects {
		cfg.Output.Objects = false
	}
	if flagSkipRDR {
		cfg.Output.RDR = false
	}
	if flagNoClassify {
		cfg.Output.ClassifyOpenings = false
	}
	return cfg
}

// buildJobs derives one job per source file. The floorplan id is the file
// name without its extension, which also names the output subdirectory.
func buildJobs(sources []string) ([]worker.Job, error) {
	annotDir := false
	if flagAnnot != "" {
		info, err := os.Stat(flagAnnot)
		if err != nil {
			return nil, fmt.Errorf("stat --r2v-annot: %w", err)
		}
		annotDir = info.IsDir()
		if !annotDir && len(sources) > 1 {
			return nil, fmt.Errorf("--r2v-annot names a file but %d sources were given; use a directory", len(sources))
		}
	}

	jobs := make([]worker.Job, 0, len(sources))
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		id := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("floorplan id %q is ambiguous: %s and %s", id, prev, src)
		}
		seen[id] = src

		annot := flagAnnot
		if annotDir {
			annot = filepath.Join(flagAnnot, id+".txt")
			if _, err := os.Stat(annot); err != nil {
				annot = ""
			}
		}
		jobs = append(jobs, worker.Job{ID: id, OutputPath: src, AnnotPath: annot})
	}
	return jobs, nil
}

func recordOutcome(ctx context.Context, index *rundb.DB, oc worker.Outcome) error {
	rec := rundb.RunRecord{
		Floorplan:  oc.Job.ID,
		Source:     oc.Job.OutputPath,
		StartedAt:  oc.Started,
		FinishedAt: oc.Finished,
		Status:     rundb.StatusOK,
	}
	if oc.Err != nil {
		rec.Status = rundb.StatusFailed
		rec.Error = oc.Err.Error()
	}
	if oc.Result != nil {
		rec.Rooms = len(oc.Result.Scene.Rooms)
		rec.Walls = len(oc.Result.Scene.Walls)
		rec.Openings = len(oc.Result.Scene.Openings)
		rec.Anomalies = oc.Result.Anomalies
	}
	_, err := index.Record(ctx, rec)
	return err
}
