package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Alia5/cpp2d/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"translate,check"`
	Format  string `help:"Output format" enum:"json,yaml,yml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to <command>.<format> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run writes every flag of the selected command with its default value.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	var target any
	switch c.Command {
	case "translate":
		target = &Translate{}
	case "check":
		target = &Check{}
	default:
		return errors.New("unknown command; expected 'translate' or 'check'")
	}
	root, err := configTemplate(target)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// configTemplate builds the kong model of a command and returns its flags
// keyed the way kong's config resolvers look them up. Positional arguments
// are never read from config files and are left out.
func configTemplate(command any) (map[string]any, error) {
	parser, err := kong.New(command, kong.Name("cpp2d"), kong.Exit(func(int) {}))
	if err != nil {
		return nil, fmt.Errorf("build command model: %w", err)
	}
	out := map[string]any{}
	for _, f := range parser.Model.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}
		out[configKey(f.Name)] = flagDefault(f)
	}
	return out, nil
}

// configKey maps a flag name to its config file key: "keep-going" becomes
// "keep_going" and "log.decl-file" becomes "log.decl_file".
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func flagDefault(f *kong.Flag) any {
	switch {
	case f.IsSlice():
		if f.Default == "" {
			return []string{}
		}
		return strings.Split(f.Default, ",")
	case f.IsBool():
		b, _ := strconv.ParseBool(f.Default)
		return b
	}
	switch f.Target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(f.Default, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(f.Default, 10, 64)
		return n
	}
	return f.Default
}
