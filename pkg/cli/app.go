package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/fraudlens/fraudlens/pkg/config"
	"github.com/fraudlens/fraudlens/pkg/data"
	"github.com/fraudlens/fraudlens/pkg/logging"
)

const (
	name         = "fraudlens"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dataFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to the scored transaction CSV file",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DataFile   string
	SampleSize int
	Port       int
	Debug      bool
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

// loadDataset reads the export fresh from disk. Called once per command or
// request so every render sees the current file, nothing is cached.
func (a *appConfig) loadDataset() (*data.Dataset, error) {
	return data.Load(a.DataFile)
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 name,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Metadata:             map[string]any{},
		Usage:                "Inspection dashboard for scored transactions (mixture-of-experts fraud output)",
		Flags: []cli.Flag{
			debugFlag,
			dataFileFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			queryCmd,
			serverCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			dir, _, err := config.GetOrCreateHomeDir(name)
			if err != nil {
				return fmt.Errorf("resolving app home dir: %w", err)
			}
			conf, err := config.ReadOrCreate(dir)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			dataFile := c.String(dataFileFlag.Name)
			if dataFile == "" {
				dataFile = conf.DataFile
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DataFile:   dataFile,
				SampleSize: conf.SampleSize,
				Port:       conf.Port,
				Debug:      c.Bool(debugFlag.Name),
			}
			return nil
		},
	}
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
