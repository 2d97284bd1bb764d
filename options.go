package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

type options struct {
	mode        string
	repo        string
	platform    string
	binDir      string
	workers     int
	configPath  string
	skipInstall bool
	skipFetch   bool
	reload      bool
}

const (
	modeDev  = "dev"
	modeProd = "prod"
)

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("runway", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	modeFlag := fs.String("mode", modeFromEnv(), "Launch mode: dev, prod (default taken from DEBUG)")
	repoFlag := fs.String("repo", "", "GitHub repository holding the tool releases (owner/name)")
	platformFlag := fs.String("platform", "", "Platform marker an asset download URL must contain")
	binDirFlag := fs.String("bin-dir", "", "Directory to install the extracted tool into")
	workersFlag := fs.Int("workers", 0, "Worker count for the prod process manager")
	configFlag := fs.String("config", "", "Path to runway.yml")
	skipInstallFlag := fs.Bool("skip-install", false, "Skip installing Python dependencies")
	skipFetchFlag := fs.Bool("skip-fetch", false, "Skip fetching the tool release")
	reloadFlag := fs.Bool("reload", false, "Restart the dev server when source files change")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	mode := *modeFlag
	if mode != "" {
		var err error
		mode, err = normalizeMode(mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return options{}, err
		}
	}

	return options{
		mode:        mode,
		repo:        *repoFlag,
		platform:    *platformFlag,
		binDir:      *binDirFlag,
		workers:     *workersFlag,
		configPath:  *configFlag,
		skipInstall: *skipInstallFlag,
		skipFetch:   *skipFetchFlag,
		reload:      *reloadFlag,
	}, nil
}

// modeFromEnv maps the DEBUG environment variable onto a launch mode. Only
// the exact value "yes" selects dev; any other present value selects prod.
// When DEBUG is absent the config file decides (its default is prod).
func modeFromEnv() string {
	debug, ok := os.LookupEnv("DEBUG")
	if !ok {
		return ""
	}
	if debug == "yes" {
		return modeDev
	}
	return modeProd
}

func normalizeMode(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case modeDev, "debug", "development":
		return modeDev, nil
	case modeProd, "production":
		return modeProd, nil
	default:
		return "", fmt.Errorf("%w: %q (expected dev|prod)", ErrUnknownMode, v)
	}
}
