package cmd

import (
	"log/slog"

	"github.com/Alia5/cpp2d/internal/codegen/generator"
)

type Check struct {
	Source `embed:""`
	Output string `arg:"" help:"Previously generated D file"`
}

// Run is called by Kong when the check command is executed.
func (c *Check) Run(logger *slog.Logger) error {
	opts := c.options()
	opts.Output = c.Output
	return generator.New(logger, nil).Check(opts)
}
