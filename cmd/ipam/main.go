// Command ipam is a small terminal front end for a phpIPAM instance. It
// covers the two everyday operations: free-text search across the web UI
// and dumping a controller's collection as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/paularlott/cli"
	"gopkg.in/yaml.v3"

	phpipam "github.com/nwkauto/go-phpipam"
)

var version = "dev"

// fileConfig is the optional YAML config file. Flags and environment
// variables override anything set here.
type fileConfig struct {
	Host     string `yaml:"host"`
	App      string `yaml:"app"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	if path == "" {
		return cfg, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	if err := yaml.Unmarshal(body, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	return cfg, nil
}

func connect(ctx context.Context, cmd *cli.Command) (*phpipam.Client, error) {
	cfg, err := loadFileConfig(cmd.GetString("config"))
	if err != nil {
		return nil, err
	}

	host := firstNonEmpty(cmd.GetString("host"), cfg.Host)
	app := firstNonEmpty(cmd.GetString("app"), cfg.App)
	user := firstNonEmpty(cmd.GetString("username"), cfg.Username)
	password := firstNonEmpty(cmd.GetString("password"), cfg.Password)

	return phpipam.New(ctx, host, user, password, app)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to a YAML config file with host/app/username/password",
			EnvVars: []string{"PHPIPAM_CONFIG"},
			Global:  true,
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Base URL of the phpIPAM instance, e.g. https://ipam.example.com",
			EnvVars: []string{"PHPIPAM_HOST"},
			Global:  true,
		},
		&cli.StringFlag{
			Name:         "app",
			Usage:        "API app ID configured in the phpIPAM API settings",
			DefaultValue: "",
			EnvVars:      []string{"PHPIPAM_APP"},
			Global:       true,
		},
		&cli.StringFlag{
			Name:    "username",
			Usage:   "phpIPAM user name",
			EnvVars: []string{"PHPIPAM_USERNAME"},
			Global:  true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "phpIPAM password",
			EnvVars: []string{"PHPIPAM_PASSWORD"},
			Global:  true,
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:        "search",
		Usage:       "Search the phpIPAM web UI",
		Description: "Run a free-text search and print the matching item IDs per category",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "expand",
				Usage: "Fetch the full record for every matched ID",
			},
		},
		MaxArgs: 1,
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if len(cmd.GetArgs()) != 1 {
				return errors.New("usage: ipam search <text>")
			}

			client, err := connect(ctx, cmd)
			if err != nil {
				return err
			}

			opts := phpipam.DefaultSearchOptions()
			opts.Expand = cmd.GetBool("expand")

			result, err := client.Search(ctx, cmd.GetArgs()[0], opts)
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:        "catalog",
		Usage:       "Dump a controller's collection",
		Description: "Fetch every item of an API controller and print it keyed by a field",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "key",
				Usage:        "Record field to key the output by",
				DefaultValue: "id",
			},
		},
		MaxArgs: 1,
		Run: func(ctx context.Context, cmd *cli.Command) error {
			if len(cmd.GetArgs()) != 1 {
				return errors.New("usage: ipam catalog <controller>")
			}

			client, err := connect(ctx, cmd)
			if err != nil {
				return err
			}

			ctrl := client.Controller(cmd.GetArgs()[0])
			if err := ctrl.GetCatalog(ctx, phpipam.KeyField(cmd.GetString("key"))); err != nil {
				return err
			}

			catalog := ctrl.Catalog()
			keys := make([]string, 0, len(catalog))
			for k := range catalog {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd := &cli.Command{
		Name:        "ipam",
		Version:     version,
		Usage:       "phpIPAM command line client",
		Description: "Search and inspect a phpIPAM instance from the terminal",
		Flags:       globalFlags(),
		Commands: []*cli.Command{
			searchCommand(),
			catalogCommand(),
		},
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
