// internal/cli/generate.go
package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lifecycle-audit-workers/internal/audit"

	"github.com/spf13/cobra"
)

type generateCmd struct {
	cli      *CLI
	input    string
	currency string
}

func (c *CLI) newGenerateCmd() *cobra.Command {
	gc := &generateCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Score an audit form and print the report as JSON",
		Example: `  audit generate --input form.json
  audit generate --input - --currency EUR < form.json`,
		Args: cobra.NoArgs,
		RunE: gc.run,
	}

	cmd.Flags().StringVarP(&gc.input, "input", "i", "", "Path to the audit form JSON, or - for stdin")
	cmd.Flags().StringVar(&gc.currency, "currency", "", "ISO currency code for money values (defaults to the engine default)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (gc *generateCmd) run(_ *cobra.Command, _ []string) error {
	data, err := gc.read()
	if err != nil {
		return err
	}

	form, err := decodeAuditForm(data)
	if err != nil {
		return err
	}

	results, err := gc.cli.engine.Generate(form, strings.ToUpper(gc.currency))
	if err != nil {
		var verr *audit.ValidationError
		if stderrors.As(err, &verr) {
			return fmt.Errorf("invalid audit form: %s", strings.Join(verr.Fields(), ", "))
		}
		return err
	}

	gc.cli.logger.Debug("Audit generated", map[string]interface{}{
		"industry":     results.LeadData.BenchmarkIndustry,
		"overallScore": results.OverallScore,
	})
	return gc.cli.printJSON(results)
}

func (gc *generateCmd) read() ([]byte, error) {
	if gc.input == "-" {
		data, err := io.ReadAll(gc.cli.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(gc.input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// decodeAuditForm accepts either a bare form or the {"auditForm": ...}
// envelope used by the API and the workflow variables.
func decodeAuditForm(data []byte) (audit.AuditFormData, error) {
	var envelope struct {
		AuditForm *audit.AuditFormData `json:"auditForm"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return audit.AuditFormData{}, fmt.Errorf("decode input: %w", err)
	}
	if envelope.AuditForm != nil {
		return *envelope.AuditForm, nil
	}

	var form audit.AuditFormData
	if err := json.Unmarshal(data, &form); err != nil {
		return audit.AuditFormData{}, fmt.Errorf("decode input: %w", err)
	}
	return form, nil
}
