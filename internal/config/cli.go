// Package config holds the kong command-line model shared by cmd/cpp2d.
package config

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Alia5/cpp2d/internal/cmd"
)

type Log struct {
	Level    string `help:"Log level: trace, debug, info, warn or error" default:"info" enum:"trace,debug,info,warn,warning,error" env:"CPP2D_LOG_LEVEL"`
	File     string `help:"Also write logs to this file" env:"CPP2D_LOG_FILE"`
	DeclFile string `help:"Write one line per top-level declaration to this file" env:"CPP2D_LOG_DECL_FILE"`
}

// CLI is the root of the command line.
type CLI struct {
	Log        Log              `embed:"" prefix:"log."`
	ConfigFile string           `name:"config" help:"Path to a JSON, YAML or TOML config file" env:"CPP2D_CONFIG"`
	Version    kong.VersionFlag `help:"Print the version and exit"`

	Translate cmd.Translate     `cmd:"" help:"Translate a C++ header or declaration tree into a D module"`
	Check     cmd.Check         `cmd:"" help:"Fail when a generated D module is out of date"`
	Config    cmd.ConfigCommand `cmd:"" help:"Manage configuration files"`
}

// StdoutBusy reports whether the selected command writes generated code to
// stdout, in which case console logging must stay on stderr.
func (c *CLI) StdoutBusy(command string) bool {
	return strings.HasPrefix(command, "translate") && c.Translate.Output == "-"
}
