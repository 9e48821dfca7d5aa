package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/platformsettings/internal/metrics"
	"github.com/yanizio/platformsettings/internal/platform"
	"github.com/yanizio/platformsettings/internal/settings"
)

var (
	renderFormat   string
	seedSettings   string
	seedConfigFile string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the settings and configuration trees derived from the environment",
	RunE: instrument("render", func(cmd *cobra.Command, args []string) error {
		s, err := readSeed(seedSettings)
		if err != nil {
			return err
		}
		c, err := readSeed(seedConfigFile)
		if err != nil {
			return err
		}
		opts := engineOptions(app.cfg, app.log.Desugar())
		return runRender(app.env, s, c, renderFormat, cmd.OutOrStdout(), opts...)
	}),
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "yaml", "output format: yaml or json")
	renderCmd.Flags().StringVar(&seedSettings, "settings", "", "YAML file with pre-existing settings")
	renderCmd.Flags().StringVar(&seedConfigFile, "config-overrides", "", "YAML file with pre-existing configuration overrides")
}

type rendered struct {
	Settings settings.Tree `json:"settings" yaml:"settings"`
	Config   settings.Tree `json:"config"   yaml:"config"`
	Applied  []string      `json:"applied"  yaml:"applied"`
}

func runRender(env *platform.Config, s, c settings.Tree, format string, out io.Writer, opts ...settings.Option) error {
	rep := settings.ApplyDefaults(env, s, c, opts...)
	metrics.RecordReport(rep)
	if rep.Skipped != nil {
		zap.S().Infow("not on the platform, printing trees unchanged")
	}

	doc := rendered{Settings: s, Config: c, Applied: rep.Applied}
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// readSeed loads a YAML mapping; an empty path yields an empty tree.
func readSeed(path string) (settings.Tree, error) {
	t := settings.Tree{}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	if t == nil {
		t = settings.Tree{}
	}
	return t, nil
}
