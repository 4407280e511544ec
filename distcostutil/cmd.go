/*
Copyright © 2024 the DistCost authors.
This file is part of DistCost.

DistCost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

DistCost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with DistCost.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package distcostutil contains the command-line interface of DistCost.
package distcostutil

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/distcost"
	"github.com/spatialmodel/distcost/batch"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(tablesCmd)
	Root.AddCommand(sampleCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(evaluateCmd)
	Root.AddCommand(datasetCmd)
	Root.AddCommand(reportCmd)
}

func init() {
	costFlags := []*pflag.FlagSet{runCmd.Flags(), evaluateCmd.Flags()}
	outputFlags := []*pflag.FlagSet{sampleCmd.Flags(), runCmd.Flags(), evaluateCmd.Flags(),
		datasetCmd.Flags(), reportCmd.Flags()}

	// Options are the configuration options available to DistCost.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log.level",
			usage: `
              log.level is the minimum severity of logged messages:
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "tables",
			usage: `
              tables is the path to a TOML file holding the installation
              factors, material factors, cost correlations, material
              densities, allowable stresses and utility catalog. The
              built-in tables are used if it is empty. Run 'distcost tables'
              to see the format.`,
			defaultVal: "",
			flagsets:   append([]*pflag.FlagSet{tablesCmd.Flags()}, costFlags...),
		},
		{
			name: "output",
			usage: `
              output is the bucket that batch files are written to and read
              from, in the format 'provider://name', for example
              file://distcost_output, s3://bucket/dir or gs://bucket/dir.`,
			shorthand:  "o",
			defaultVal: "file://distcost_output",
			flagsets:   outputFlags,
		},
		{
			name: "prefix",
			usage: `
              prefix is the key prefix of the batch files of costed columns.`,
			defaultVal: batch.DefaultPrefix,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), evaluateCmd.Flags(), datasetCmd.Flags(), reportCmd.Flags()},
		},
		{
			name: "input",
			usage: `
              input is the bucket holding the batch files of columns to be
              evaluated. It defaults to the output bucket.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{evaluateCmd.Flags()},
		},
		{
			name: "input.prefix",
			usage: `
              input.prefix is the key prefix of the batch files of columns
              to be evaluated.`,
			defaultVal: "simulations",
			flagsets:   []*pflag.FlagSet{evaluateCmd.Flags()},
		},
		{
			name: "simulations",
			usage: `
              simulations is the bucket holding the batch files of process
              simulation results, matched to designs by column ID. It defaults
              to the output bucket.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "simulations.prefix",
			usage: `
              simulations.prefix is the key prefix of the batch files of
              process simulation results.`,
			defaultVal: "simulations",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "retry.maxelapsed",
			usage: `
              retry.maxelapsed is how long a failing process simulation is
              retried before the column is recorded as failed, for example
              30s or 5m.`,
			defaultVal: "1m",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of columns sized and costed at once.`,
			defaultVal: runtime.GOMAXPROCS(-1),
			flagsets:   costFlags,
		},
		{
			name: "cachesize",
			usage: `
              cachesize is the number of evaluation results kept in memory so
              that identical columns are only evaluated once.`,
			defaultVal: 10000,
			flagsets:   costFlags,
		},
		{
			name: "Economics.CostIndex",
			usage: `
              Economics.CostIndex is the Chemical Engineering Plant Cost
              Index used to scale the utility cost correlations.`,
			defaultVal: 802.6,
			flagsets:   costFlags,
		},
		{
			name: "Economics.FuelCost",
			usage: `
              Economics.FuelCost is the cost of fuel [$/GJ].`,
			defaultVal: 4.5,
			flagsets:   costFlags,
		},
		{
			name: "Economics.InterestRate",
			usage: `
              Economics.InterestRate is the fractional yearly interest rate
              used to annualize capital costs.`,
			defaultVal: 0.2,
			flagsets:   costFlags,
		},
		{
			name: "Economics.Years",
			usage: `
              Economics.Years is the number of years over which capital costs
              are repaid.`,
			defaultVal: 5,
			flagsets:   costFlags,
		},
		{
			name: "sample.n",
			usage: `
              sample.n is the number of designs in the Latin hypercube sample.`,
			shorthand:  "n",
			defaultVal: 100000,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "sample.seed",
			usage: `
              sample.seed is the seed of the random number generator used for
              sampling. Interrupted runs can only be resumed with the same
              seed and sample size.`,
			defaultVal: 42,
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "sample.prefix",
			usage: `
              sample.prefix is the key prefix of the batch files of sampled
              designs.`,
			defaultVal: "designs",
			flagsets:   []*pflag.FlagSet{sampleCmd.Flags()},
		},
		{
			name: "dataset",
			usage: `
              dataset is the path of the CSV file that the convergence
              dataset is written to.`,
			defaultVal: "dataset.csv",
			flagsets:   []*pflag.FlagSet{datasetCmd.Flags()},
		},
		{
			name: "report",
			usage: `
              report is the path of the Excel file that the cost report is
              written to.`,
			defaultVal: "report.xlsx",
			flagsets:   []*pflag.FlagSet{reportCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DISTCOST")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("distcost: problem reading configuration file: %v", err)
		}
	}
	return setLog(Cfg)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "distcost",
	Short: "A techno-economic evaluator for distillation columns.",
	Long: `DistCost sizes and prices tray distillation columns from process
simulation results and calculates their total annualized cost. It can also
generate Latin hypercube samples of column designs and turn the results
into datasets and reports.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'DISTCOST_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of DistCost.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "DistCost v%s\n", distcost.Version)
	},
	DisableAutoGenTag: true,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the cost and property tables",
	Long: `tables prints the cost and property tables in use as TOML. The output
can be edited and passed back with the --tables flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := LoadTables(Cfg.GetString("tables"))
		if err != nil {
			return err
		}
		return t.Encode(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample column designs",
	Long: `sample draws a Latin hypercube sample of column designs and writes
them to the output bucket, so that they can be simulated by an external
process simulator. An interrupted run is resumed from the last batch file
written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		bucket, err := openBucket(ctx, Cfg.GetString("output"))
		if err != nil {
			return err
		}
		defer bucket.Close()
		n, seed, err := sampleConfig(Cfg)
		if err != nil {
			return err
		}
		return Sample(ctx, bucket, Cfg.GetString("sample.prefix"), n, seed, logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample, simulate and cost columns",
	Long: `run draws a Latin hypercube sample of column designs, looks up their
process simulation results, and sizes and costs each column. Results are
written to the output bucket in batches of about 1% of the sample. An
interrupted run is resumed from the last batch file written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logrus.StandardLogger()
		out, err := openBucket(ctx, Cfg.GetString("output"))
		if err != nil {
			return err
		}
		defer out.Close()
		simURL := Cfg.GetString("simulations")
		if simURL == "" {
			simURL = Cfg.GetString("output")
		}
		simBucket, err := openBucket(ctx, simURL)
		if err != nil {
			return err
		}
		defer simBucket.Close()

		n, seed, err := sampleConfig(Cfg)
		if err != nil {
			return err
		}
		maxElapsed, err := durationConfig(Cfg, "retry.maxelapsed")
		if err != nil {
			return err
		}
		ev, err := evaluator(Cfg)
		if err != nil {
			return err
		}
		ev.Log = log
		sim, err := replaySimulator(ctx, simBucket, Cfg.GetString("simulations.prefix"), maxElapsed, log)
		if err != nil {
			return err
		}
		return Run(ctx, out, Cfg.GetString("prefix"), n, seed, sim, ev, log)
	},
	DisableAutoGenTag: true,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Cost simulated columns",
	Long: `evaluate sizes and costs the simulated columns in the input batch
files and writes the results to the output bucket. Columns that cannot be
evaluated are written with the reason in their error field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logrus.StandardLogger()
		out, err := openBucket(ctx, Cfg.GetString("output"))
		if err != nil {
			return err
		}
		defer out.Close()
		inURL := Cfg.GetString("input")
		if inURL == "" {
			inURL = Cfg.GetString("output")
		}
		in, err := openBucket(ctx, inURL)
		if err != nil {
			return err
		}
		defer in.Close()
		ev, err := evaluator(Cfg)
		if err != nil {
			return err
		}
		ev.Log = log
		recs, err := batch.ReadAll(ctx, in, Cfg.GetString("input.prefix"))
		if err != nil {
			return err
		}
		return Evaluate(ctx, out, Cfg.GetString("prefix"), recs, ev, log)
	},
	DisableAutoGenTag: true,
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Write the convergence dataset",
	Long: `dataset writes the design variables and convergence flag of every
column in the output bucket to a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		bucket, err := openBucket(ctx, Cfg.GetString("output"))
		if err != nil {
			return err
		}
		defer bucket.Close()
		return Dataset(ctx, bucket, Cfg.GetString("prefix"), os.ExpandEnv(Cfg.GetString("dataset")), logrus.StandardLogger())
	},
	DisableAutoGenTag: true,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the cost report",
	Long: `report writes every column in the output bucket and summary
statistics of their costs to an Excel workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		bucket, err := openBucket(ctx, Cfg.GetString("output"))
		if err != nil {
			return err
		}
		defer bucket.Close()
		_, err = Report(ctx, bucket, Cfg.GetString("prefix"), os.ExpandEnv(Cfg.GetString("report")), logrus.StandardLogger())
		return err
	},
	DisableAutoGenTag: true,
}
