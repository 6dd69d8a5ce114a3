// Package output provides utilities for formatting and displaying profit results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/greenseat-forecast/internal/profit"
	"github.com/iwvelando/greenseat-forecast/pkg/commute"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/iwvelando/greenseat-forecast/pkg/format"
	"github.com/iwvelando/greenseat-forecast/pkg/mathutil"
	"github.com/iwvelando/greenseat-forecast/pkg/validation"
)

// Verdict summarizes whether the green seat pays for itself.
func Verdict(summary commute.CalculationSummary) string {
	daily, ok := summary.Period(commute.PeriodDaily)
	switch {
	case !ok:
		return "unknown"
	case mathutil.WithinTolerance(daily.WorkValue, daily.GreenSeatCost, constants.CurrencyTolerance):
		return "break-even"
	case mathutil.IsNegative(daily.NetProfit):
		return "not worth it"
	default:
		return "worth it"
	}
}

// BreakEven renders the break-even hourly rate, or a note when it is absent.
func BreakEven(summary commute.CalculationSummary) string {
	if summary.BreakEvenHourlyRate == nil {
		return "n/a (no commute time is spent working)"
	}
	return format.Currency(*summary.BreakEvenHourlyRate) + "/h"
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []profit.Result) {
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		if !result.Valid() {
			writeInputErrors(w, result.Errors)
		} else {
			writeSummary(w, *result.Summary)
		}
		if len(results) > 1 && i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

func writeInputErrors(w io.Writer, inputErr *validation.InputError) {
	if inputErr == nil {
		fmt.Fprintf(w, "No result\n")
		return
	}
	fmt.Fprintf(w, "%s\n", inputErr.Message)
	for _, field := range inputErr.FieldErrors.Fields() {
		for _, msg := range inputErr.FieldErrors[field] {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
}

func writeSummary(w io.Writer, summary commute.CalculationSummary) {
	fmt.Fprintf(w, "Period  | Net profit   | Work value   | Green seat cost\n")
	fmt.Fprintf(w, "______  | ____________ | ____________ | _______________\n")
	for _, p := range summary.PeriodSummaries {
		fmt.Fprintf(w, "%-7s | %12s | %12s | %15s\n", p.Label,
			format.Currency(p.NetProfit), format.Currency(p.WorkValue), format.Currency(p.GreenSeatCost))
	}

	cb := summary.CostBreakdown
	fmt.Fprintf(w, "Working time per day: %s (%s)\n", format.Minutes(cb.WorkingMinutesPerDay), format.Hours(cb.WorkingHoursPerDay))
	fmt.Fprintf(w, "Green seat trips: %d per day, %d per week at %s each\n",
		cb.GreenSeatTripsPerDay, cb.GreenSeatTripsPerWeek, format.Currency(cb.AdditionalCostPerTrip))
	fmt.Fprintf(w, "Break-even hourly rate: %s\n", BreakEven(summary))
	fmt.Fprintf(w, "Verdict: %s\n", Verdict(summary))
}

// CsvFormat outputs in comma-separated value format. Scenarios with invalid
// input produce a single row carrying their first error per field.
func CsvFormat(w io.Writer, results []profit.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "period", "workValue", "greenSeatCost", "netProfit", "breakEvenHourlyRate", "errors"}); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid() {
			if err := cw.Write([]string{result.Name, "", "", "", "", "", csvErrors(result.Errors)}); err != nil {
				return err
			}
			continue
		}

		breakEven := ""
		if rate := result.Summary.BreakEvenHourlyRate; rate != nil {
			breakEven = strconv.FormatFloat(mathutil.Round(*rate), 'f', 2, 64)
		}
		for _, p := range result.Summary.PeriodSummaries {
			row := []string{
				result.Name,
				string(p.Period),
				format.NumericCurrency(p.WorkValue),
				format.NumericCurrency(p.GreenSeatCost),
				format.NumericCurrency(p.NetProfit),
				breakEven,
				"",
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvErrors(inputErr *validation.InputError) string {
	if inputErr == nil {
		return ""
	}
	var buf bytes.Buffer
	for i, field := range inputErr.FieldErrors.Fields() {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(field + ": " + inputErr.FieldErrors.First(field))
	}
	return buf.String()
}

// CsvString returns the CSV representation of the results.
func CsvString(results []profit.Result) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

type jsonResult struct {
	Name        string                      `json:"name"`
	Input       validation.RawInput         `json:"input"`
	Summary     *commute.CalculationSummary `json:"summary,omitempty"`
	FieldErrors validation.FieldErrors      `json:"fieldErrors,omitempty"`
	Message     string                      `json:"message,omitempty"`
	Verdict     string                      `json:"verdict,omitempty"`
}

// JSONFormat outputs the results as an indented JSON array.
func JSONFormat(w io.Writer, results []profit.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, result := range results {
		jr := jsonResult{Name: result.Name, Input: result.Input}
		if result.Valid() {
			jr.Summary = result.Summary
			jr.Verdict = Verdict(*result.Summary)
		} else if result.Errors != nil {
			jr.FieldErrors = result.Errors.FieldErrors
			jr.Message = result.Errors.Message
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
