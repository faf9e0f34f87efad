package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/app"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/config"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/fleet"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/logger"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/pkg/export"
)

var (
	outJSON string
	outCSV  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the fleet simulation and print the TCO verdict",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&outJSON, "json", "", "write the run summary to this JSON file")
	simulateCmd.Flags().StringVar(&outCSV, "csv", "", "write per-model results to this CSV file")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	logg := logger.New("simulate")
	stopProgress := svc.Orchestrator.Events().Drain(64, func(ev fleet.ProgressEvent) {
		if ev.Day > 0 && ev.Day%10 == 0 {
			logg.Infof("day %d/%d", ev.Day, ev.TotalDays)
		}
	})
	defer stopProgress()

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	printVerdict(cmd, res)

	if outJSON != "" {
		if err := writeJSON(outJSON, res); err != nil {
			return err
		}
	}
	if outCSV != "" {
		if err := writeCSV(outCSV, res); err != nil {
			return err
		}
	}
	return nil
}

func printVerdict(cmd *cobra.Command, res *fleet.RunResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tKSh/KM\tOPEX\tCAPEX\tKM\tSOH\tSWAPS")
	for _, name := range orderedModels(res) {
		r := res.Results[name]
		fmt.Fprintf(w, "%s\t%.2f\t%.0f\t%.0f\t%.0f\t%.3f\t%d\n",
			r.ModelName, r.CostPerKm, r.TotalOpex, r.TotalCapex, r.TotalKm, r.MeanSoH, r.Swaps)
	}
	_ = w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\nbest model: %s\n", res.BestModel)
}

// orderedModels returns the result names in a stable order, preferring
// the preset order when all four built-in models are present.
func orderedModels(res *fleet.RunResult) []string {
	preset := []string{}
	for _, m := range model.DefaultModelSpecs() {
		if _, ok := res.Results[m.Name]; ok {
			preset = append(preset, m.Name)
		}
	}
	if len(preset) == len(res.Results) {
		return preset
	}
	names := make([]string, 0, len(res.Results))
	for name := range res.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(path string, res *fleet.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteJSON(f, export.Summary{
		RunID:     res.RunID,
		BestModel: res.BestModel,
		Results:   res.Results,
	})
}

func writeCSV(path string, res *fleet.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows := make([]model.FleetResult, 0, len(res.Results))
	for _, name := range orderedModels(res) {
		rows = append(rows, res.Results[name])
	}
	return export.WriteResultsCSV(f, rows)
}
