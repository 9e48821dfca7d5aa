package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/platformsettings/internal/config"
	"github.com/yanizio/platformsettings/internal/drush"
	"github.com/yanizio/platformsettings/internal/platform"
	"github.com/yanizio/platformsettings/internal/settings"
)

const generator = "platformsettings site-url"

var siteURLCmd = &cobra.Command{
	Use:   "site-url",
	Short: "Write the canonical site URL for Drush",
	Long: `Selects the site URL from the application's upstream routes (primary first,
then https, then shortest) and writes it to the Drush configuration file.`,
	RunE: instrument("site-url", func(cmd *cobra.Command, args []string) error {
		return runSiteURL(app.cfg, app.env, cmd.OutOrStdout())
	}),
}

func runSiteURL(cfg *config.Config, env *platform.Config, out io.Writer) error {
	file := cfg.Drush.File

	url, ok := siteURL(cfg, env)
	if !ok {
		msg := "failed to find a site URL"
		if _, err := os.Stat(file); err == nil {
			msg += fmt.Sprintf("; the file exists but may be invalid: %s", file)
		}
		return errors.New(msg)
	}

	if err := drush.Write(file, url, cfg.Drush.Format, generator); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created Drush configuration file: %s\n", file)
	return nil
}

// siteURL ranks the upstream routes of the configured (or current) app.
func siteURL(cfg *config.Config, env *platform.Config) (string, bool) {
	if !env.InRuntime() {
		return "", false
	}
	name := cfg.App.Name
	if name == "" {
		name = env.ApplicationName()
	}

	routes := env.UpstreamRoutes(name)
	if name == "" {
		routes = env.Routes()
	}
	return settings.SelectSiteURL(routes)
}
