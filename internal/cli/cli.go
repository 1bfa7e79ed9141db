// internal/cli/cli.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/calculators"
	"lifecycle-audit-workers/internal/common/logger"

	"github.com/spf13/cobra"
)

type Options struct {
	Engine      *audit.Engine
	Calculators *calculators.Registry
	Stdin       io.Reader
	Stdout      io.Writer
}

// CLI holds what the subcommands share. The logger is built once flags are
// parsed.
type CLI struct {
	engine      *audit.Engine
	calculators *calculators.Registry
	stdin       io.Reader
	out         io.Writer
	logger      logger.Logger
	logLevel    string
}

func New(opts Options) *CLI {
	if opts.Engine == nil {
		opts.Engine = audit.NewEngine(audit.AuditDefaults{})
	}
	if opts.Calculators == nil {
		opts.Calculators = calculators.NewRegistry()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &CLI{
		engine:      opts.Engine,
		calculators: opts.Calculators,
		stdin:       opts.Stdin,
		out:         opts.Stdout,
		logger:      logger.NewNopLogger(),
	}
}

// RootCmd returns the audit command tree.
func (c *CLI) RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "audit",
		Short:         "Customer lifecycle audit and business-metric calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.logLevel == "" {
				return nil
			}
			log, err := logger.NewStructured(c.logLevel, "console", "stderr")
			if err != nil {
				return err
			}
			c.logger = log
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log to stderr at this level (debug, info, warn, error)")

	cmd.AddCommand(c.newGenerateCmd())
	cmd.AddCommand(c.newCalcCmd())
	cmd.AddCommand(c.newRegistryCmd())
	return cmd
}

func (c *CLI) Execute(args []string) error {
	cmd := c.RootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(c.out)
	return cmd.Execute()
}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
