// Package commute defines the commute and cost data model and the green seat
// profitability calculator.
package commute

// CostCalculationMode discriminates the CommuteSettings variants.
type CostCalculationMode string

const (
	CostModeSimple   CostCalculationMode = "simple"
	CostModeDetailed CostCalculationMode = "detailed"
)

// TransportMethod is the commute transport used by the detailed cost mode.
type TransportMethod string

const (
	TransportTrain TransportMethod = "train"
	TransportBus   TransportMethod = "bus"
	TransportCar   TransportMethod = "car"
	TransportOther TransportMethod = "other"
)

// PassFundingType describes who pays for a commuter pass.
type PassFundingType string

const (
	FundingCompany    PassFundingType = "company"
	FundingSelf       PassFundingType = "self"
	FundingPartial    PassFundingType = "partial"
	FundingPayAsYouGo PassFundingType = "pay_as_you_go"
)

// GreenSeatUsageType describes how green seat tickets are bought.
type GreenSeatUsageType string

const (
	UsageSeasonTicket GreenSeatUsageType = "season_ticket"
	UsageSingleTicket GreenSeatUsageType = "single_ticket"
	UsageHybrid       GreenSeatUsageType = "hybrid"
)

// BasicSettings holds the commute parameters shared by every cost mode.
type BasicSettings struct {
	HourlyRate           float64 `json:"hourlyRate" yaml:"hourlyRate"`
	CommuteMinutesOneWay float64 `json:"commuteMinutesOneWay" yaml:"commuteMinutesOneWay"`
	CommutingDaysPerWeek int     `json:"commutingDaysPerWeek" yaml:"commutingDaysPerWeek"`
}

// CommuteSettings is the cost configuration of a request. It is implemented
// only by SimpleCostConfiguration and DetailedCostConfiguration.
type CommuteSettings interface {
	CostMode() CostCalculationMode
	sealed()
}

// SimpleCostSettings is a flat per-trip surcharge with a fixed daily trip count.
type SimpleCostSettings struct {
	AdditionalCostOneWay float64 `json:"additionalCostOneWay" yaml:"additionalCostOneWay"`
	GreenSeatTripsPerDay int     `json:"greenSeatTripsPerDay" yaml:"greenSeatTripsPerDay"`
}

// SimpleCostConfiguration selects the simple cost mode.
type SimpleCostConfiguration struct {
	SimpleCost SimpleCostSettings `json:"simpleCost" yaml:"simpleCost"`
}

// CostMode implements CommuteSettings.
func (SimpleCostConfiguration) CostMode() CostCalculationMode { return CostModeSimple }

func (SimpleCostConfiguration) sealed() {}

// DetailedCostSettings models season tickets and pass funding. The calculator
// does not resolve it yet.
type DetailedCostSettings struct {
	TransportMethod       TransportMethod    `json:"transportMethod" yaml:"transportMethod"`
	PassFundingType       PassFundingType    `json:"passFundingType" yaml:"passFundingType"`
	EmployerSupportAmount *float64           `json:"employerSupportAmount,omitempty" yaml:"employerSupportAmount,omitempty"`
	GreenSeatUsage        GreenSeatUsageType `json:"greenSeatUsage" yaml:"greenSeatUsage"`
	GreenSeasonTicketCost *float64           `json:"greenSeasonTicketCost,omitempty" yaml:"greenSeasonTicketCost,omitempty"`
	SingleTicketCost      *float64           `json:"singleTicketCost,omitempty" yaml:"singleTicketCost,omitempty"`
}

// DetailedCostConfiguration selects the detailed cost mode.
type DetailedCostConfiguration struct {
	DetailedCost DetailedCostSettings `json:"detailedCost" yaml:"detailedCost"`
}

// CostMode implements CommuteSettings.
func (DetailedCostConfiguration) CostMode() CostCalculationMode { return CostModeDetailed }

func (DetailedCostConfiguration) sealed() {}

// CalculationRequest is the sole input of Calculate.
type CalculationRequest struct {
	Basic   BasicSettings
	Commute CommuteSettings
}

// PeriodUnit names a reporting horizon.
type PeriodUnit string

const (
	PeriodDaily   PeriodUnit = "daily"
	PeriodWeekly  PeriodUnit = "weekly"
	PeriodMonthly PeriodUnit = "monthly"
	PeriodYearly  PeriodUnit = "yearly"
)

// Periods lists the reporting horizons in presentation order.
var Periods = []PeriodUnit{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

var periodLabels = map[PeriodUnit]string{
	PeriodDaily:   "Daily",
	PeriodWeekly:  "Weekly",
	PeriodMonthly: "Monthly",
	PeriodYearly:  "Yearly",
}

// Label returns the display label of the period.
func (p PeriodUnit) Label() string {
	return periodLabels[p]
}

// PeriodBreakdown holds the profitability figures for one horizon.
type PeriodBreakdown struct {
	Period        PeriodUnit `json:"period"`
	Label         string     `json:"label"`
	WorkValue     float64    `json:"workValue"`
	GreenSeatCost float64    `json:"greenSeatCost"`
	NetProfit     float64    `json:"netProfit"`
}

// CostBreakdown holds derived figures retained for display.
type CostBreakdown struct {
	WorkingMinutesPerDay  float64 `json:"workingMinutesPerDay"`
	WorkingHoursPerDay    float64 `json:"workingHoursPerDay"`
	GreenSeatTripsPerDay  int     `json:"greenSeatTripsPerDay"`
	GreenSeatTripsPerWeek int     `json:"greenSeatTripsPerWeek"`
	AdditionalCostPerTrip float64 `json:"additionalCostPerTrip"`
}

// CalculationSummary is the output of Calculate. BreakEvenHourlyRate is nil
// when no commute time is redirected to work.
type CalculationSummary struct {
	PeriodSummaries     []PeriodBreakdown `json:"periodSummaries"`
	BreakEvenHourlyRate *float64          `json:"breakEvenHourlyRate"`
	CostBreakdown       CostBreakdown     `json:"costBreakdown"`
}

// Period returns the breakdown for the given horizon.
func (s CalculationSummary) Period(period PeriodUnit) (PeriodBreakdown, bool) {
	for _, breakdown := range s.PeriodSummaries {
		if breakdown.Period == period {
			return breakdown, true
		}
	}
	return PeriodBreakdown{}, false
}
