// internal/workers/calculators/run-calculator/handler.go
package runcalculator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"lifecycle-audit-workers/internal/calculators"
	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "run-calculator"

type Handler struct {
	config     *Config
	registry   *calculators.Registry
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, registry *calculators.Registry, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		registry:   registry,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewCalculatorInputInvalidError(fmt.Errorf("parse variables: %w", err))
	} else {
		output, err = h.Execute(ctx, &input)
	}

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	result, err := Run(h.registry, input.Calculator, input.Params)
	if err != nil {
		return nil, err
	}
	return &Output{CalculatorResult: result}, nil
}

// Run executes one calculator and maps its failures onto worker error codes.
// The HTTP API shares it so both surfaces report the same codes.
func Run(registry *calculators.Registry, name string, params map[string]float64) (interface{}, error) {
	if params == nil {
		params = map[string]float64{}
	}

	result, err := registry.Run(name, params)
	switch {
	case err == nil:
		metrics.CalculatorRuns.WithLabelValues(name, "success").Inc()
		return result, nil
	case stderrors.Is(err, calculators.ErrUnknownCalculator):
		metrics.CalculatorRuns.WithLabelValues("unknown", "not_found").Inc()
		return nil, errors.NewCalculatorNotFoundError(name)
	case stderrors.Is(err, calculators.ErrInvalidInput):
		metrics.CalculatorRuns.WithLabelValues(name, "invalid").Inc()
		return nil, errors.NewCalculatorInputInvalidError(err)
	default:
		metrics.CalculatorRuns.WithLabelValues(name, "error").Inc()
		return nil, errors.NewInternalError(err)
	}
}
