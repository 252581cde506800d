package config_test

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/cpp2d/internal/config"
)

func parse(t *testing.T, args ...string) (*config.CLI, *kong.Context) {
	t.Helper()
	var cli config.CLI
	parser, err := kong.New(&cli, kong.Name("cpp2d"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestCLITranslateDefaults(t *testing.T) {
	cli, ctx := parse(t, "translate", "shapes.hpp", "--import", "core.stdc.config", "--import", "std.string")

	assert.Equal(t, "translate <input>", ctx.Command())
	assert.Equal(t, "shapes.hpp", cli.Translate.Input)
	assert.Equal(t, "-", cli.Translate.Output)
	assert.Equal(t, "auto", cli.Translate.InputFormat)
	assert.Equal(t, "fixMangle", cli.Translate.MangleHelper)
	assert.Equal(t, []string{"core.stdc.config", "std.string"}, cli.Translate.Imports)
	assert.Equal(t, "info", cli.Log.Level)
	assert.True(t, cli.StdoutBusy(ctx.Command()))
}

func TestCLITranslateToFile(t *testing.T) {
	cli, ctx := parse(t, "--log.level", "debug", "translate", "shapes.hpp", "-o", "shapes.d", "--layout-only", "--keep-going")

	assert.Equal(t, "debug", cli.Log.Level)
	assert.Equal(t, "shapes.d", cli.Translate.Output)
	assert.True(t, cli.Translate.LayoutOnly)
	assert.True(t, cli.Translate.KeepGoing)
	assert.False(t, cli.StdoutBusy(ctx.Command()))
}

func TestCLICheck(t *testing.T) {
	cli, ctx := parse(t, "check", "shapes.hpp", "shapes.d", "--module", "shapes")

	assert.Equal(t, "check <input> <output>", ctx.Command())
	assert.Equal(t, "shapes.d", cli.Check.Output)
	assert.Equal(t, "shapes", cli.Check.Module)
	assert.False(t, cli.StdoutBusy(ctx.Command()))
}

func TestCLIRejectsUnknownFormat(t *testing.T) {
	var cli config.CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"translate", "a.h", "--input-format", "xml"})
	assert.Error(t, err)
}
