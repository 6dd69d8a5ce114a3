// Package validation provides input and format validation utilities.
package validation

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/greenseat-forecast/pkg/commute"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/spf13/cast"
)

// Input field names.
const (
	FieldHourlyRate           = "hourlyRate"
	FieldCommuteMinutesOneWay = "commuteMinutesOneWay"
	FieldCommutingDaysPerWeek = "commutingDaysPerWeek"
	FieldAdditionalCostOneWay = "additionalCostOneWay"
	FieldGreenSeatTripsPerDay = "greenSeatTripsPerDay"
)

// InvalidInputMessage is the general message attached to every InputError.
const InvalidInputMessage = "Please check your input."

// RawInput is unvalidated form input. Values may be strings, numbers, nil or
// missing.
type RawInput map[string]interface{}

// FieldErrors maps a field name to its violation messages in check order.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// First returns the first message for field, or "" if it has none.
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the fields with errors in declaration order. Unknown fields
// follow in the order they sort.
func (fe FieldErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool, len(fe))
	for _, fr := range fieldRules {
		if _, ok := fe[fr.field]; ok {
			fields = append(fields, fr.field)
			seen[fr.field] = true
		}
	}
	var extra []string
	for field := range fe {
		if !seen[field] {
			extra = append(extra, field)
		}
	}
	sort.Strings(extra)
	return append(fields, extra...)
}

// InputError is returned when raw input fails validation.
type InputError struct {
	FieldErrors FieldErrors `json:"fieldErrors"`
	Message     string      `json:"message,omitempty"`
}

func (e *InputError) Error() string {
	var parts []string
	for _, field := range e.FieldErrors.Fields() {
		parts = append(parts, field+": "+strings.Join(e.FieldErrors[field], "; "))
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + " " + strings.Join(parts, ", ")
}

type rule struct {
	check   func(float64) bool
	message string
}

type fieldRule struct {
	field          string
	numericMessage string
	rules          []rule
}

func isInteger(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

func atLeast(min float64) func(float64) bool {
	return func(v float64) bool { return v >= min }
}

func atMost(max float64) func(float64) bool {
	return func(v float64) bool { return v <= max }
}

var fieldRules = []fieldRule{
	{
		field:          FieldHourlyRate,
		numericMessage: "Hourly rate must be a number",
		rules: []rule{
			{atLeast(0), "Hourly rate must be 0 or more"},
			{atMost(constants.MaxHourlyRate), "Hourly rate is too high"},
		},
	},
	{
		field:          FieldCommuteMinutesOneWay,
		numericMessage: "Commute time must be a number",
		rules: []rule{
			{atLeast(0), "Commute time must be 0 minutes or more"},
			{atMost(constants.MaxCommuteMinutesOneWay), "Commute time is too long"},
		},
	},
	{
		field:          FieldCommutingDaysPerWeek,
		numericMessage: "Commuting days must be a number",
		rules: []rule{
			{isInteger, "Commuting days must be a whole number"},
			{atLeast(0), "Commuting days must be 0 or more"},
			{atMost(constants.MaxCommutingDaysPerWeek), "Commuting days per week must be 7 or fewer"},
		},
	},
	{
		field:          FieldAdditionalCostOneWay,
		numericMessage: "Additional fare must be a number",
		rules: []rule{
			{atLeast(0), "Green seat additional fare must be 0 or more"},
			{atMost(constants.MaxAdditionalCostOneWay), "Additional fare is too high"},
		},
	},
	{
		field:          FieldGreenSeatTripsPerDay,
		numericMessage: "Trip count must be a number",
		rules: []rule{
			{isInteger, "Trip count must be a whole number"},
			{atLeast(0), "Trip count must be 0 or more"},
			{atMost(constants.MaxGreenSeatTripsPerDay), "Too many green seat trips per day"},
		},
	},
}

// FieldNames returns the input field names in declaration order.
func FieldNames() []string {
	names := make([]string, len(fieldRules))
	for i, fr := range fieldRules {
		names[i] = fr.field
	}
	return names
}

// parseNumber coerces a raw value to a float64. Missing, nil and empty values
// are NaN, as is anything that does not convert.
func parseNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case string:
		return parseNumericString(v)
	case json.Number:
		return parseNumericString(v.String())
	case bool:
		return math.NaN()
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseNumericString(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	if len(trimmed) > 2 && trimmed[0] == '0' {
		switch trimmed[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			n, err := strconv.ParseUint(trimmed, 0, 64)
			if err != nil || strings.Contains(trimmed, "_") {
				return math.NaN()
			}
			return float64(n)
		}
	}
	switch trimmed {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if strings.ContainsAny(trimmed, "_xXpP") || strings.EqualFold(strings.TrimLeft(trimmed, "+-"), "inf") ||
		strings.EqualFold(strings.TrimLeft(trimmed, "+-"), "infinity") || strings.EqualFold(trimmed, "nan") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// checkField runs every rule for one field. A value that failed numeric
// conversion reports the numeric message first and then fails every
// remaining rule as well, since NaN satisfies no comparison.
func checkField(fr fieldRule, value float64, errs FieldErrors) {
	if math.IsNaN(value) {
		errs.Add(fr.field, fr.numericMessage)
	}
	for _, r := range fr.rules {
		if !r.check(value) {
			errs.Add(fr.field, r.message)
		}
	}
}

// Validate coerces and bounds-checks raw input. It returns either a simple
// cost mode request or an InputError listing every violated rule per field.
func Validate(raw RawInput) (commute.CalculationRequest, *InputError) {
	values := make(map[string]float64, len(fieldRules))
	errs := make(FieldErrors)
	for _, fr := range fieldRules {
		value := parseNumber(raw[fr.field])
		checkField(fr, value, errs)
		values[fr.field] = value
	}

	if len(errs) > 0 {
		return commute.CalculationRequest{}, &InputError{FieldErrors: errs, Message: InvalidInputMessage}
	}

	return commute.CalculationRequest{
		Basic: commute.BasicSettings{
			HourlyRate:           values[FieldHourlyRate],
			CommuteMinutesOneWay: values[FieldCommuteMinutesOneWay],
			CommutingDaysPerWeek: int(values[FieldCommutingDaysPerWeek]),
		},
		Commute: commute.SimpleCostConfiguration{
			SimpleCost: commute.SimpleCostSettings{
				AdditionalCostOneWay: values[FieldAdditionalCostOneWay],
				GreenSeatTripsPerDay: int(values[FieldGreenSeatTripsPerDay]),
			},
		},
	}, nil
}

// ToRawInput renders a simple cost mode request back into raw input, e.g. to
// persist it. Other cost modes yield nil.
func ToRawInput(request commute.CalculationRequest) RawInput {
	simple, ok := request.Commute.(commute.SimpleCostConfiguration)
	if !ok {
		return nil
	}
	return RawInput{
		FieldHourlyRate:           request.Basic.HourlyRate,
		FieldCommuteMinutesOneWay: request.Basic.CommuteMinutesOneWay,
		FieldCommutingDaysPerWeek: request.Basic.CommutingDaysPerWeek,
		FieldAdditionalCostOneWay: simple.SimpleCost.AdditionalCostOneWay,
		FieldGreenSeatTripsPerDay: simple.SimpleCost.GreenSeatTripsPerDay,
	}
}

// DefaultInput returns the baseline scenario as raw input.
func DefaultInput() RawInput {
	return ToRawInput(commute.DefaultRequest())
}
