package commute

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/greenseat-forecast/pkg/constants"
)

func simpleRequest(hourlyRate, minutes float64, days int, cost float64, trips int) CalculationRequest {
	return CalculationRequest{
		Basic: BasicSettings{
			HourlyRate:           hourlyRate,
			CommuteMinutesOneWay: minutes,
			CommutingDaysPerWeek: days,
		},
		Commute: SimpleCostConfiguration{
			SimpleCost: SimpleCostSettings{
				AdditionalCostOneWay: cost,
				GreenSeatTripsPerDay: trips,
			},
		},
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func TestCalculateBaselineScenario(t *testing.T) {
	summary, err := Calculate(DefaultRequest())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	cb := summary.CostBreakdown
	if cb.WorkingMinutesPerDay != 90 {
		t.Errorf("WorkingMinutesPerDay = %v, expected 90", cb.WorkingMinutesPerDay)
	}
	if cb.WorkingHoursPerDay != 1.5 {
		t.Errorf("WorkingHoursPerDay = %v, expected 1.5", cb.WorkingHoursPerDay)
	}
	if cb.GreenSeatTripsPerDay != 2 || cb.GreenSeatTripsPerWeek != 6 {
		t.Errorf("trips = %d/%d, expected 2/6", cb.GreenSeatTripsPerDay, cb.GreenSeatTripsPerWeek)
	}
	if cb.AdditionalCostPerTrip != 1000 {
		t.Errorf("AdditionalCostPerTrip = %v, expected 1000", cb.AdditionalCostPerTrip)
	}

	tests := []struct {
		period    PeriodUnit
		workValue float64
		cost      float64
		netProfit float64
	}{
		{PeriodDaily, 4500, 2000, 2500},
		{PeriodWeekly, 13500, 6000, 7500},
		{PeriodMonthly, 58500, 26000, 32500},
		{PeriodYearly, 702000, 312000, 390000},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			breakdown, ok := summary.Period(tt.period)
			if !ok {
				t.Fatalf("missing %s breakdown", tt.period)
			}
			if !approxEqual(breakdown.WorkValue, tt.workValue) {
				t.Errorf("WorkValue = %v, expected %v", breakdown.WorkValue, tt.workValue)
			}
			if !approxEqual(breakdown.GreenSeatCost, tt.cost) {
				t.Errorf("GreenSeatCost = %v, expected %v", breakdown.GreenSeatCost, tt.cost)
			}
			if !approxEqual(breakdown.NetProfit, tt.netProfit) {
				t.Errorf("NetProfit = %v, expected %v", breakdown.NetProfit, tt.netProfit)
			}
		})
	}

	if summary.BreakEvenHourlyRate == nil {
		t.Fatal("expected break-even hourly rate")
	}
	if math.Abs(*summary.BreakEvenHourlyRate-1333.33) > 0.01 {
		t.Errorf("BreakEvenHourlyRate = %v, expected ~1333.33", *summary.BreakEvenHourlyRate)
	}
}

func TestCalculatePeriodOrdering(t *testing.T) {
	summary := MustCalculate(simpleRequest(1200, 30, 5, 800, 1))

	if len(summary.PeriodSummaries) != len(Periods) {
		t.Fatalf("expected %d period summaries, got %d", len(Periods), len(summary.PeriodSummaries))
	}
	for i, expected := range Periods {
		got := summary.PeriodSummaries[i]
		if got.Period != expected {
			t.Errorf("period[%d] = %s, expected %s", i, got.Period, expected)
		}
		if got.Label != expected.Label() || got.Label == "" {
			t.Errorf("period[%d] label = %q, expected %q", i, got.Label, expected.Label())
		}
	}
}

func TestCalculateInvariants(t *testing.T) {
	requests := []CalculationRequest{
		DefaultRequest(),
		simpleRequest(0, 45, 3, 1000, 2),
		simpleRequest(100000, 300, 7, 20000, 4),
		simpleRequest(850.5, 17.5, 2, 640, 1),
		simpleRequest(2500, 60, 0, 500, 2),
		simpleRequest(1, 1, 1, 20000, 4),
	}

	for _, req := range requests {
		summary := MustCalculate(req)
		days := float64(req.Basic.CommutingDaysPerWeek)
		daily, _ := summary.Period(PeriodDaily)
		weekly, _ := summary.Period(PeriodWeekly)
		monthly, _ := summary.Period(PeriodMonthly)
		yearly, _ := summary.Period(PeriodYearly)

		for _, breakdown := range summary.PeriodSummaries {
			if breakdown.NetProfit != breakdown.WorkValue-breakdown.GreenSeatCost {
				t.Errorf("%s: net profit %v != %v - %v", breakdown.Period,
					breakdown.NetProfit, breakdown.WorkValue, breakdown.GreenSeatCost)
			}
		}

		if weekly.WorkValue != daily.WorkValue*days || weekly.GreenSeatCost != daily.GreenSeatCost*days {
			t.Errorf("weekly figures do not scale daily by %v: %+v vs %+v", days, weekly, daily)
		}
		if monthly.WorkValue != weekly.WorkValue*constants.WeeksPerMonth ||
			monthly.GreenSeatCost != weekly.GreenSeatCost*constants.WeeksPerMonth {
			t.Errorf("monthly figures do not scale weekly by WeeksPerMonth: %+v vs %+v", monthly, weekly)
		}
		if yearly.WorkValue != weekly.WorkValue*constants.WeeksPerYear ||
			yearly.GreenSeatCost != weekly.GreenSeatCost*constants.WeeksPerYear {
			t.Errorf("yearly figures do not scale weekly by WeeksPerYear: %+v vs %+v", yearly, weekly)
		}

		again := MustCalculate(req)
		if !reflect.DeepEqual(summary, again) {
			t.Errorf("Calculate() is not deterministic for %+v", req)
		}
	}
}

func TestCalculateBreakEven(t *testing.T) {
	tests := []struct {
		name     string
		request  CalculationRequest
		expected *float64
	}{
		{
			name:    "Zero trips",
			request: simpleRequest(3000, 45, 3, 1000, 0),
		},
		{
			name:    "Zero commute minutes",
			request: simpleRequest(3000, 0, 3, 1000, 2),
		},
		{
			name:     "One trip of an hour",
			request:  simpleRequest(3000, 60, 5, 900, 1),
			expected: floatPtr(900),
		},
		{
			name:     "Free green seat",
			request:  simpleRequest(3000, 30, 5, 0, 2),
			expected: floatPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := MustCalculate(tt.request)
			if tt.expected == nil {
				if summary.BreakEvenHourlyRate != nil {
					t.Errorf("expected absent break-even rate, got %v", *summary.BreakEvenHourlyRate)
				}
				return
			}
			if summary.BreakEvenHourlyRate == nil {
				t.Fatalf("expected break-even rate %v, got nil", *tt.expected)
			}
			if !approxEqual(*summary.BreakEvenHourlyRate, *tt.expected) {
				t.Errorf("BreakEvenHourlyRate = %v, expected %v", *summary.BreakEvenHourlyRate, *tt.expected)
			}
		})
	}
}

func TestCalculateZeroTrips(t *testing.T) {
	summary := MustCalculate(simpleRequest(3000, 45, 3, 1000, 0))

	if summary.CostBreakdown.WorkingHoursPerDay != 0 {
		t.Errorf("WorkingHoursPerDay = %v, expected 0", summary.CostBreakdown.WorkingHoursPerDay)
	}
	for _, breakdown := range summary.PeriodSummaries {
		if breakdown.GreenSeatCost != 0 || breakdown.NetProfit != 0 {
			t.Errorf("%s: expected zero cost and profit, got %+v", breakdown.Period, breakdown)
		}
	}
	if summary.BreakEvenHourlyRate != nil {
		t.Errorf("expected absent break-even rate, got %v", *summary.BreakEvenHourlyRate)
	}
}

func TestCalculateNegativeProfit(t *testing.T) {
	summary := MustCalculate(simpleRequest(500, 20, 5, 1500, 2))

	daily, _ := summary.Period(PeriodDaily)
	if daily.NetProfit >= 0 {
		t.Errorf("expected a loss, got %v", daily.NetProfit)
	}
}

func TestCalculateDetailedModeFails(t *testing.T) {
	support := 5000.0
	detailed := CalculationRequest{
		Basic: DefaultRequest().Basic,
		Commute: DetailedCostConfiguration{
			DetailedCost: DetailedCostSettings{
				TransportMethod:       TransportTrain,
				PassFundingType:       FundingPartial,
				EmployerSupportAmount: &support,
				GreenSeatUsage:        UsageSeasonTicket,
			},
		},
	}

	tests := []struct {
		name    string
		request CalculationRequest
		mode    CostCalculationMode
	}{
		{"Detailed value", detailed, CostModeDetailed},
		{"Detailed pointer", CalculationRequest{Basic: detailed.Basic, Commute: &DetailedCostConfiguration{}}, CostModeDetailed},
		{"Missing settings", CalculationRequest{Basic: detailed.Basic}, ""},
		{"Nil simple pointer", CalculationRequest{Basic: detailed.Basic, Commute: (*SimpleCostConfiguration)(nil)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Calculate(tt.request)
			if err == nil {
				t.Fatalf("expected error, got summary %+v", summary)
			}
			if !errors.Is(err, ErrUnsupportedCostMode) {
				t.Errorf("expected ErrUnsupportedCostMode, got %v", err)
			}
			var modeErr *UnsupportedCostModeError
			if !errors.As(err, &modeErr) {
				t.Fatalf("expected *UnsupportedCostModeError, got %T", err)
			}
			if modeErr.Mode != tt.mode {
				t.Errorf("Mode = %q, expected %q", modeErr.Mode, tt.mode)
			}
			if len(summary.PeriodSummaries) != 0 {
				t.Errorf("expected empty summary, got %+v", summary)
			}
		})
	}
}

func TestMustCalculatePanicsOnDetailedMode(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected panic")
		}
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, ErrUnsupportedCostMode) {
			t.Errorf("unexpected panic value %v", recovered)
		}
	}()

	MustCalculate(CalculationRequest{
		Basic:   DefaultRequest().Basic,
		Commute: DetailedCostConfiguration{},
	})
}

func TestCalculateDoesNotMutateRequest(t *testing.T) {
	req := &SimpleCostConfiguration{SimpleCost: SimpleCostSettings{AdditionalCostOneWay: 700, GreenSeatTripsPerDay: 2}}
	request := CalculationRequest{Basic: BasicSettings{HourlyRate: 2000, CommuteMinutesOneWay: 40, CommutingDaysPerWeek: 4}, Commute: req}
	before := *req

	if _, err := Calculate(request); err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if *req != before {
		t.Errorf("request mutated: %+v -> %+v", before, *req)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
