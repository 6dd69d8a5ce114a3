package commute

import (
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
)

// resolveSimpleCost returns the per-trip surcharge and the daily trip count of
// the active cost mode. Only the simple mode is implemented; every other
// variant is an UnsupportedCostModeError.
func resolveSimpleCost(settings CommuteSettings) (float64, int, error) {
	switch s := settings.(type) {
	case SimpleCostConfiguration:
		return s.SimpleCost.AdditionalCostOneWay, s.SimpleCost.GreenSeatTripsPerDay, nil
	case *SimpleCostConfiguration:
		if s != nil {
			return s.SimpleCost.AdditionalCostOneWay, s.SimpleCost.GreenSeatTripsPerDay, nil
		}
		return 0, 0, &UnsupportedCostModeError{}
	case DetailedCostConfiguration, *DetailedCostConfiguration:
		return 0, 0, &UnsupportedCostModeError{Mode: CostModeDetailed}
	case nil:
		return 0, 0, &UnsupportedCostModeError{}
	default:
		return 0, 0, &UnsupportedCostModeError{Mode: s.CostMode()}
	}
}

func buildPeriodBreakdown(period PeriodUnit, workValue, additionalCost float64) PeriodBreakdown {
	return PeriodBreakdown{
		Period:        period,
		Label:         period.Label(),
		WorkValue:     workValue,
		GreenSeatCost: additionalCost,
		NetProfit:     workValue - additionalCost,
	}
}

// Calculate derives the daily, weekly, monthly and yearly profitability of
// working in a green seat during the commute. It is a pure function of the
// request; the only error is UnsupportedCostModeError.
func Calculate(request CalculationRequest) (CalculationSummary, error) {
	additionalCostPerTrip, tripsPerDay, err := resolveSimpleCost(request.Commute)
	if err != nil {
		return CalculationSummary{}, err
	}

	basic := request.Basic
	trips := float64(tripsPerDay)
	daysPerWeek := float64(basic.CommutingDaysPerWeek)

	workingMinutesPerDay := basic.CommuteMinutesOneWay * trips
	workingHoursPerDay := workingMinutesPerDay / constants.MinutesPerHour
	costPerDay := additionalCostPerTrip * trips
	incomePerDay := workingHoursPerDay * basic.HourlyRate

	incomePerWeek := incomePerDay * daysPerWeek
	costPerWeek := costPerDay * daysPerWeek

	incomePerMonth := incomePerWeek * constants.WeeksPerMonth
	costPerMonth := costPerWeek * constants.WeeksPerMonth

	incomePerYear := incomePerWeek * constants.WeeksPerYear
	costPerYear := costPerWeek * constants.WeeksPerYear

	var breakEven *float64
	if workingHoursPerDay > 0 {
		rate := costPerDay / workingHoursPerDay
		breakEven = &rate
	}

	return CalculationSummary{
		PeriodSummaries: []PeriodBreakdown{
			buildPeriodBreakdown(PeriodDaily, incomePerDay, costPerDay),
			buildPeriodBreakdown(PeriodWeekly, incomePerWeek, costPerWeek),
			buildPeriodBreakdown(PeriodMonthly, incomePerMonth, costPerMonth),
			buildPeriodBreakdown(PeriodYearly, incomePerYear, costPerYear),
		},
		BreakEvenHourlyRate: breakEven,
		CostBreakdown: CostBreakdown{
			WorkingMinutesPerDay:  workingMinutesPerDay,
			WorkingHoursPerDay:    workingHoursPerDay,
			GreenSeatTripsPerDay:  tripsPerDay,
			GreenSeatTripsPerWeek: tripsPerDay * basic.CommutingDaysPerWeek,
			AdditionalCostPerTrip: additionalCostPerTrip,
		},
	}, nil
}

// MustCalculate is like Calculate but panics on an unsupported cost mode.
func MustCalculate(request CalculationRequest) CalculationSummary {
	summary, err := Calculate(request)
	if err != nil {
		panic(err)
	}
	return summary
}

// DefaultRequest returns the baseline scenario used when no prior input exists.
func DefaultRequest() CalculationRequest {
	return CalculationRequest{
		Basic: BasicSettings{
			HourlyRate:           constants.DefaultHourlyRate,
			CommuteMinutesOneWay: constants.DefaultCommuteMinutesOneWay,
			CommutingDaysPerWeek: constants.DefaultCommutingDaysPerWeek,
		},
		Commute: SimpleCostConfiguration{
			SimpleCost: SimpleCostSettings{
				AdditionalCostOneWay: constants.DefaultAdditionalCostOneWay,
				GreenSeatTripsPerDay: constants.DefaultGreenSeatTripsPerDay,
			},
		},
	}
}
