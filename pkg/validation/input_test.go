package validation

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/greenseat-forecast/pkg/commute"
)

func baselineInput() RawInput {
	return RawInput{
		FieldHourlyRate:           3000,
		FieldCommuteMinutesOneWay: 45,
		FieldCommutingDaysPerWeek: 3,
		FieldAdditionalCostOneWay: 1000,
		FieldGreenSeatTripsPerDay: 2,
	}
}

func withField(field string, value interface{}) RawInput {
	raw := baselineInput()
	raw[field] = value
	return raw
}

func TestValidateBaseline(t *testing.T) {
	request, inputErr := Validate(baselineInput())
	if inputErr != nil {
		t.Fatalf("Validate() unexpected error = %v", inputErr)
	}
	if !reflect.DeepEqual(request, commute.DefaultRequest()) {
		t.Errorf("Validate() = %+v, expected %+v", request, commute.DefaultRequest())
	}
	if request.Commute.CostMode() != commute.CostModeSimple {
		t.Errorf("expected simple cost mode, got %s", request.Commute.CostMode())
	}
}

func TestValidateStringInput(t *testing.T) {
	raw := RawInput{
		FieldHourlyRate:           "2500.5",
		FieldCommuteMinutesOneWay: " 30 ",
		FieldCommutingDaysPerWeek: "5",
		FieldAdditionalCostOneWay: json.Number("780"),
		FieldGreenSeatTripsPerDay: int64(1),
	}

	request, inputErr := Validate(raw)
	if inputErr != nil {
		t.Fatalf("Validate() unexpected error = %v", inputErr)
	}

	expected := commute.CalculationRequest{
		Basic: commute.BasicSettings{HourlyRate: 2500.5, CommuteMinutesOneWay: 30, CommutingDaysPerWeek: 5},
		Commute: commute.SimpleCostConfiguration{
			SimpleCost: commute.SimpleCostSettings{AdditionalCostOneWay: 780, GreenSeatTripsPerDay: 1},
		},
	}
	if !reflect.DeepEqual(request, expected) {
		t.Errorf("Validate() = %+v, expected %+v", request, expected)
	}
}

func TestValidateFieldMessages(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    interface{}
		expected []string
	}{
		{"Hourly rate zero", FieldHourlyRate, 0, nil},
		{"Hourly rate maximum", FieldHourlyRate, 100000, nil},
		{"Hourly rate maximum string", FieldHourlyRate, "100000", nil},
		{"Hourly rate negative", FieldHourlyRate, -1, []string{"Hourly rate must be 0 or more"}},
		{"Hourly rate above maximum", FieldHourlyRate, 100001, []string{"Hourly rate is too high"}},
		{"Hourly rate non-numeric", FieldHourlyRate, "abc", []string{"Hourly rate must be a number", "Hourly rate must be 0 or more", "Hourly rate is too high"}},
		{"Hourly rate empty string", FieldHourlyRate, "", []string{"Hourly rate must be a number", "Hourly rate must be 0 or more", "Hourly rate is too high"}},
		{"Hourly rate nil", FieldHourlyRate, nil, []string{"Hourly rate must be a number", "Hourly rate must be 0 or more", "Hourly rate is too high"}},
		{"Hourly rate boolean", FieldHourlyRate, true, []string{"Hourly rate must be a number", "Hourly rate must be 0 or more", "Hourly rate is too high"}},
		{"Hourly rate whitespace", FieldHourlyRate, "   ", nil},
		{"Hourly rate exponent", FieldHourlyRate, "1e3", nil},
		{"Hourly rate hex", FieldHourlyRate, "0x10", nil},
		{"Hourly rate infinity", FieldHourlyRate, "Infinity", []string{"Hourly rate is too high"}},
		{"Hourly rate lowercase inf", FieldHourlyRate, "inf", []string{"Hourly rate must be a number", "Hourly rate must be 0 or more", "Hourly rate is too high"}},
		{"Commute minutes maximum", FieldCommuteMinutesOneWay, 300, nil},
		{"Commute minutes above maximum", FieldCommuteMinutesOneWay, 300.5, []string{"Commute time is too long"}},
		{"Commute minutes negative", FieldCommuteMinutesOneWay, "-5", []string{"Commute time must be 0 minutes or more"}},
		{"Commuting days fractional", FieldCommutingDaysPerWeek, 3.5, []string{"Commuting days must be a whole number"}},
		{"Commuting days fractional string", FieldCommutingDaysPerWeek, "3.5", []string{"Commuting days must be a whole number"}},
		{"Commuting days fractional and too many", FieldCommutingDaysPerWeek, 7.5, []string{
			"Commuting days must be a whole number",
			"Commuting days per week must be 7 or fewer",
		}},
		{"Commuting days fractional and negative", FieldCommutingDaysPerWeek, -0.5, []string{
			"Commuting days must be a whole number",
			"Commuting days must be 0 or more",
		}},
		{"Commuting days seven", FieldCommutingDaysPerWeek, 7, nil},
		{"Commuting days eight", FieldCommutingDaysPerWeek, 8, []string{"Commuting days per week must be 7 or fewer"}},
		{"Commuting days missing", FieldCommutingDaysPerWeek, nil, []string{
			"Commuting days must be a number",
			"Commuting days must be a whole number",
			"Commuting days must be 0 or more",
			"Commuting days per week must be 7 or fewer",
		}},
		{"Commute minutes non-numeric", FieldCommuteMinutesOneWay, "abc", []string{
			"Commute time must be a number",
			"Commute time must be 0 minutes or more",
			"Commute time is too long",
		}},
		{"Additional cost non-numeric", FieldAdditionalCostOneWay, "", []string{
			"Additional fare must be a number",
			"Green seat additional fare must be 0 or more",
			"Additional fare is too high",
		}},
		{"Additional cost maximum", FieldAdditionalCostOneWay, 20000, nil},
		{"Additional cost above maximum", FieldAdditionalCostOneWay, 20001, []string{"Additional fare is too high"}},
		{"Additional cost negative", FieldAdditionalCostOneWay, -100, []string{"Green seat additional fare must be 0 or more"}},
		{"Trips zero", FieldGreenSeatTripsPerDay, 0, nil},
		{"Trips fractional", FieldGreenSeatTripsPerDay, "2.5", []string{"Trip count must be a whole number"}},
		{"Trips too many", FieldGreenSeatTripsPerDay, 5, []string{"Too many green seat trips per day"}},
		{"Trips non-numeric", FieldGreenSeatTripsPerDay, "two", []string{
			"Trip count must be a number",
			"Trip count must be a whole number",
			"Trip count must be 0 or more",
			"Too many green seat trips per day",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, inputErr := Validate(withField(tt.field, tt.value))

			if tt.expected == nil {
				if inputErr != nil {
					t.Fatalf("Validate() unexpected error = %v", inputErr)
				}
				return
			}
			if inputErr == nil {
				t.Fatalf("Validate() expected error for %s=%v", tt.field, tt.value)
			}
			if len(inputErr.FieldErrors) != 1 {
				t.Errorf("expected errors for one field, got %v", inputErr.FieldErrors)
			}
			if got := inputErr.FieldErrors[tt.field]; !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("FieldErrors[%s] = %v, expected %v", tt.field, got, tt.expected)
			}
			if inputErr.FieldErrors.First(tt.field) != tt.expected[0] {
				t.Errorf("First(%s) = %q, expected %q", tt.field, inputErr.FieldErrors.First(tt.field), tt.expected[0])
			}
			if inputErr.Message != InvalidInputMessage {
				t.Errorf("Message = %q, expected %q", inputErr.Message, InvalidInputMessage)
			}
		})
	}
}

func TestValidateEmptyInput(t *testing.T) {
	_, inputErr := Validate(RawInput{})
	if inputErr == nil {
		t.Fatal("expected error for empty input")
	}

	fields := inputErr.FieldErrors.Fields()
	if !reflect.DeepEqual(fields, FieldNames()) {
		t.Errorf("Fields() = %v, expected %v", fields, FieldNames())
	}
	for _, field := range fields {
		msgs := inputErr.FieldErrors[field]
		if len(msgs) < 3 || !strings.HasSuffix(msgs[0], "must be a number") {
			t.Errorf("%s: unexpected messages %v", field, msgs)
		}
	}
	if !strings.HasPrefix(inputErr.Error(), InvalidInputMessage) {
		t.Errorf("Error() = %q, expected prefix %q", inputErr.Error(), InvalidInputMessage)
	}
}

func TestValidateNonNumericRunsEveryRule(t *testing.T) {
	raw := DefaultInput()
	raw[FieldHourlyRate] = "abc"
	raw[FieldCommutingDaysPerWeek] = "x"

	_, inputErr := Validate(raw)
	if inputErr == nil {
		t.Fatal("expected validation errors")
	}

	expected := FieldErrors{
		FieldHourlyRate: {
			"Hourly rate must be a number",
			"Hourly rate must be 0 or more",
			"Hourly rate is too high",
		},
		FieldCommutingDaysPerWeek: {
			"Commuting days must be a number",
			"Commuting days must be a whole number",
			"Commuting days must be 0 or more",
			"Commuting days per week must be 7 or fewer",
		},
	}
	if !reflect.DeepEqual(inputErr.FieldErrors, expected) {
		t.Errorf("FieldErrors = %v, expected %v", inputErr.FieldErrors, expected)
	}
}

func TestValidateDeterministic(t *testing.T) {
	raw := RawInput{
		FieldHourlyRate:           "-3",
		FieldCommuteMinutesOneWay: "x",
		FieldCommutingDaysPerWeek: 9.5,
		FieldAdditionalCostOneWay: 100,
		FieldGreenSeatTripsPerDay: 1,
	}

	_, first := Validate(raw)
	_, second := Validate(raw)
	if first == nil || second == nil {
		t.Fatal("expected validation errors")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate() not deterministic: %v vs %v", first, second)
	}
	if raw[FieldHourlyRate] != "-3" {
		t.Errorf("input mutated: %v", raw)
	}
}

func TestFieldErrorsFieldsOrdering(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("zeta", "unknown")
	fe.Add(FieldGreenSeatTripsPerDay, "b")
	fe.Add(FieldHourlyRate, "a")
	fe.Add("form", "general")

	expected := []string{FieldHourlyRate, FieldGreenSeatTripsPerDay, "form", "zeta"}
	if got := fe.Fields(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Fields() = %v, expected %v", got, expected)
	}
	if fe.First("missing") != "" {
		t.Errorf("First() on missing field should be empty")
	}
}

func TestToRawInputRoundTrip(t *testing.T) {
	request, inputErr := Validate(DefaultInput())
	if inputErr != nil {
		t.Fatalf("DefaultInput() does not validate: %v", inputErr)
	}
	if !reflect.DeepEqual(request, commute.DefaultRequest()) {
		t.Errorf("DefaultInput() validated to %+v", request)
	}

	detailed := commute.CalculationRequest{Commute: commute.DetailedCostConfiguration{}}
	if raw := ToRawInput(detailed); raw != nil {
		t.Errorf("ToRawInput(detailed) = %v, expected nil", raw)
	}
}
