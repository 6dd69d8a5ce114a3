// Package profit runs raw commute input through validation and the green seat
// calculator, for single requests and for configured scenarios.
package profit

import (
	"fmt"

	"github.com/iwvelando/greenseat-forecast/internal/config"
	"github.com/iwvelando/greenseat-forecast/pkg/commute"
	"github.com/iwvelando/greenseat-forecast/pkg/validation"
	"go.uber.org/zap"
)

// ActionResult is the outcome of evaluating one raw input. Exactly one of
// Summary and FieldErrors is set.
type ActionResult struct {
	Success     bool                        `json:"success"`
	Summary     *commute.CalculationSummary `json:"summary,omitempty"`
	FieldErrors validation.FieldErrors      `json:"fieldErrors,omitempty"`
	Message     string                      `json:"message,omitempty"`
}

// Result holds the evaluation of a configured scenario.
type Result struct {
	Name    string
	Input   validation.RawInput
	Request commute.CalculationRequest
	Summary *commute.CalculationSummary
	Errors  *validation.InputError
}

// Valid reports whether the scenario input passed validation.
func (r Result) Valid() bool {
	return r.Errors == nil && r.Summary != nil
}

// Evaluate validates raw and, if it is valid, calculates its summary. Invalid
// input is reported in the result; the returned error is reserved for
// unsupported cost modes.
func Evaluate(logger *zap.Logger, raw validation.RawInput) (ActionResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	request, inputErr := validation.Validate(raw)
	if inputErr != nil {
		logger.Debug("input rejected",
			zap.String("op", "profit.Evaluate"),
			zap.Strings("fields", inputErr.FieldErrors.Fields()),
		)
		return ActionResult{
			Success:     false,
			FieldErrors: inputErr.FieldErrors,
			Message:     inputErr.Message,
		}, nil
	}

	summary, err := commute.Calculate(request)
	if err != nil {
		logger.Error("calculation failed",
			zap.String("op", "profit.Evaluate"),
			zap.Error(err),
		)
		return ActionResult{}, err
	}

	return ActionResult{Success: true, Summary: &summary}, nil
}

// GetProfits evaluates every active scenario. A scenario with invalid input
// is returned with its errors; an unsupported cost mode aborts the run.
func GetProfits(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Result
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "profit.GetProfits"),
			)
			continue
		}

		result := Result{Name: scenario.Name, Input: scenario.RawInput()}
		request, inputErr := validation.Validate(result.Input)
		if inputErr != nil {
			logger.Warn(fmt.Sprintf("scenario %s has invalid input", scenario.Name),
				zap.String("op", "profit.GetProfits"),
				zap.String("error", inputErr.Error()),
			)
			result.Errors = inputErr
			results = append(results, result)
			continue
		}

		summary, err := commute.Calculate(request)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Request = request
		result.Summary = &summary
		results = append(results, result)
	}

	return results, nil
}

// GetDefault evaluates the baseline scenario.
func GetDefault() Result {
	request := commute.DefaultRequest()
	summary := commute.MustCalculate(request)
	return Result{
		Name:    "default",
		Input:   validation.DefaultInput(),
		Request: request,
		Summary: &summary,
	}
}
