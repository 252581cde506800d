package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/Alia5/cpp2d/internal/codegen/common"
	"github.com/Alia5/cpp2d/internal/config"
	"github.com/Alia5/cpp2d/internal/configpaths"
	"github.com/Alia5/cpp2d/internal/log"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	paths := configpaths.ConfigCandidatePaths(userCfg)

	version, err := common.GetVersion()
	if err != nil {
		version = common.Version
	}

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("cpp2d"),
		kong.Description("Translate C++ declarations into D extern(C++) bindings"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Flags and env override config file values.
		kong.Configuration(kong.JSON, paths.JSON...),
		kong.Configuration(kongyaml.Loader, paths.YAML...),
		kong.Configuration(kongtoml.Loader, paths.TOML...),
	)

	logger, closeFiles, err := log.SetupLogger(log.Options{
		Level:      cli.Log.Level,
		File:       cli.Log.File,
		StdoutBusy: cli.StdoutBusy(ctx.Command()),
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	declLog := log.NewDecl(nil)
	if cli.Log.DeclFile != "" {
		f, err := os.OpenFile(cli.Log.DeclFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open declaration log file", "file", cli.Log.DeclFile, "error", err)
		} else {
			declLog = log.NewDecl(f)
			closeFiles = append(closeFiles, f)
		}
	}

	ctx.Bind(logger)
	ctx.BindTo(declLog, (*log.DeclLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("CPP2D_CONFIG")
}
