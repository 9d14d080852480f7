package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/vismanifest/internal/config"
	"github.com/forPelevin/vismanifest/internal/logging"
	"github.com/forPelevin/vismanifest/internal/pipeline"
	"github.com/forPelevin/vismanifest/internal/report"
	"github.com/forPelevin/vismanifest/internal/types"
)

const runTimeout = 10 * time.Minute

type buildFlags struct {
	screenplay string
	shots      string
	roster     string
	out        string
	projectID  string
	title      string
}

func newBuildCommand(configPath *string) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the manifest, prompt batch and clip bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, *configPath, f)
		},
	}
	cmd.Flags().StringVar(&f.screenplay, "screenplay", "", "Screenplay JSON")
	cmd.Flags().StringVar(&f.shots, "shots", "", "Shot breakdown JSON")
	cmd.Flags().StringVar(&f.roster, "roster", "", "Cast roster JSON")
	cmd.Flags().StringVar(&f.out, "out", "", "Output directory")
	cmd.Flags().StringVar(&f.projectID, "project-id", "", "Project id (default: derived from the screenplay path)")
	cmd.Flags().StringVar(&f.title, "title", "", "Title override")
	return cmd
}

func runBuild(cmd *cobra.Command, configPath string, f buildFlags) error {
	cfg, log, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	paths := types.ArtifactPaths{
		Screenplay: cfg.Paths.Screenplay,
		ShotList:   cfg.Paths.Shots,
		Roster:     cfg.Paths.Roster,
	}
	outDir := cfg.Paths.OutDir
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{f.screenplay, &paths.Screenplay},
		{f.shots, &paths.ShotList},
		{f.roster, &paths.Roster},
		{f.out, &outDir},
	} {
		if strings.TrimSpace(o.flag) == "" {
			continue
		}
		p, err := config.ExpandPath(o.flag)
		if err != nil {
			return fmt.Errorf("resolve path %q: %w", o.flag, err)
		}
		*o.dst = p
	}

	projectID := firstNonEmpty(f.projectID, cfg.Project.ID)
	title := firstNonEmpty(f.title, cfg.Project.Title)

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	pcfg := pipeline.Config{
		Paths:     paths,
		OutDir:    outDir,
		ProjectID: projectID,
		Title:     title,
		Style:     cfg.Style,
		Prompts:   cfg.PromptOptions(),
		Logger:    log,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	runDir, res, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}

	r := report.New(cmd.OutOrStdout())
	r.Summary(res.Summary)
	r.Bundle(res.Bundle)
	fmt.Fprintf(cmd.OutOrStdout(), "Run written to %s\n", runDir)
	return nil
}

func newDispatchCommand(configPath *string) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "dispatch <run-dir>",
		Short: "Rehearse clip generation for a run with the dry-run generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("parallel") {
				parallel = cfg.Dispatch.MaxParallel
			}
			if parallel < 1 {
				return fmt.Errorf("parallel must be >= 1")
			}
			runDir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			results, err := pipeline.Dispatch(ctx, runDir, parallel, log)
			if err != nil {
				return err
			}
			report.New(cmd.OutOrStdout()).Dispatch(results)
			return nil
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Maximum concurrent shot chains (default from config)")
	return cmd
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <run-dir>",
		Short: "Show the summary and clip bundles of a written run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runDir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			s, b, err := pipeline.Inspect(cmd.Context(), runDir)
			if err != nil {
				return err
			}
			r := report.New(cmd.OutOrStdout())
			r.Summary(s)
			r.Bundle(b)
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command, path string) (*config.Config, *slog.Logger, error) {
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	if exists {
		log.Debug("config loaded", "path", resolved)
	} else {
		log.Debug("config file not found, using defaults", "path", resolved)
	}
	return cfg, log, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
