// internal/cli/calc.go
package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"lifecycle-audit-workers/internal/calculators"

	"github.com/spf13/cobra"
)

type calcCmd struct {
	cli    *CLI
	params []string
}

func (c *CLI) newCalcCmd() *cobra.Command {
	cc := &calcCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "calc <calculator>",
		Short: "Run a business-metric calculator",
		Long: "Run a business-metric calculator. Available calculators: " +
			strings.Join(c.calculators.Names(), ", "),
		Example: `  audit calc average-order-value --param revenue=12000 --param orders=300
  audit calc ltv-cac -p averageOrderValue=80 -p purchaseFrequency=3 -p customerLifespan=24 -p customerAcquisitionCost=120`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: c.calculators.Names(),
		RunE:      cc.run,
	}

	cmd.Flags().StringArrayVarP(&cc.params, "param", "p", nil, "Calculator parameter as key=value (repeatable)")
	return cmd
}

func (cc *calcCmd) run(_ *cobra.Command, args []string) error {
	params, err := parseParams(cc.params)
	if err != nil {
		return err
	}

	name := args[0]
	result, err := cc.cli.calculators.Run(name, params)
	if err != nil {
		if stderrors.Is(err, calculators.ErrUnknownCalculator) {
			return fmt.Errorf("unknown calculator %q, available: %s", name, strings.Join(cc.cli.calculators.Names(), ", "))
		}
		return err
	}
	return cc.cli.printJSON(result)
}

func parseParams(raw []string) (map[string]float64, error) {
	params := make(map[string]float64, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: value must be a number", kv)
		}
		params[key] = f
	}
	return params, nil
}
