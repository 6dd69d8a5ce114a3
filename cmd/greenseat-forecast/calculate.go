package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/greenseat-forecast/internal/config"
	"github.com/iwvelando/greenseat-forecast/internal/profit"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/iwvelando/greenseat-forecast/pkg/output"
	"github.com/iwvelando/greenseat-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInvalidInput is returned when at least one scenario failed validation.
var errInvalidInput = errors.New("one or more scenarios have invalid input")

// inputFlags maps calculate flags to input fields.
var inputFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"hourly-rate", validation.FieldHourlyRate, "hourly value of working time in yen"},
	{"commute-minutes", validation.FieldCommuteMinutesOneWay, "one-way commute time in minutes"},
	{"commuting-days", validation.FieldCommutingDaysPerWeek, "commuting days per week (0-7)"},
	{"additional-cost", validation.FieldAdditionalCostOneWay, "green seat surcharge per one-way trip in yen"},
	{"trips-per-day", validation.FieldGreenSeatTripsPerDay, "green seat trips per day"},
}

func calculateCmd(logLevel *string) *cobra.Command {
	var configLocation string
	var outputFormatFlag string
	values := make(map[string]*string, len(inputFlags))

	c := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate green seat profitability for flag input or a scenario file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := &config.Configuration{}
			if configLocation != "" {
				loaded, err := config.LoadConfiguration(configLocation)
				if err != nil {
					return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
				}
				conf = loaded
			} else {
				raw := validation.DefaultInput()
				for _, f := range inputFlags {
					if cmd.Flags().Changed(f.flag) {
						raw[f.field] = *values[f.flag]
					}
				}
				conf.Scenarios = []config.Scenario{{Name: "cli", Active: true, Input: raw}}
			}

			logger, err := initializeLogger(conf.Logging, *logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			return runCalculate(cmd.OutOrStdout(), logger, conf, outputFormatFlag)
		},
	}

	c.Flags().StringVarP(&configLocation, "config", "c", "", "path to a scenario configuration file (optional)")
	c.Flags().StringVarP(&outputFormatFlag, "output-format", "o", "", "type of output override: pretty, csv, json")
	for _, f := range inputFlags {
		values[f.flag] = c.Flags().String(f.flag, "", f.usage)
	}
	return c
}

func runCalculate(w io.Writer, logger *zap.Logger, conf *config.Configuration, outputFormatFlag string) error {
	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.calculate"),
		)
	}

	results, err := profit.GetProfits(logger, *conf)
	if err != nil {
		logger.Error("failed to compute profits",
			zap.String("op", "main.calculate"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(w, results)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(w, results)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	for _, result := range results {
		if !result.Valid() {
			return errInvalidInput
		}
	}
	return nil
}
