package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ltilab/internal/batch"
	"github.com/san-kum/ltilab/internal/config"
	"github.com/san-kum/ltilab/internal/poly"
	"github.com/san-kum/ltilab/internal/viz"
)

var outPath string

func batchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run the analyses of a scenario file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel analyses (0 = scenario setting)")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	results, err := batch.Run(cmd.Context(), sc, batch.Options{
		Concurrency: concurrency,
		Store:       st,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Println(viz.Heading(fmt.Sprintf("%s (%s)", r.Name, r.Kind)))
		if r.Err != nil {
			fmt.Println(viz.Verdict("FAILED: "+r.Err.Error(), viz.Bad))
			fmt.Println()
			continue
		}
		fmt.Println(r.Report)
		if r.SavedID != "" {
			fmt.Printf("saved: %s\n", r.SavedID)
		}
		fmt.Println()
	}

	ok, failed := batch.Summary(results)
	fmt.Println(viz.Separator(60))
	fmt.Printf("%s %d/%d analyses succeeded", viz.ProgressBar(float64(ok)/float64(len(results)), 20), ok, len(results))
	if failed > 0 {
		fmt.Printf(", %s", viz.Verdict(strconv.Itoa(failed)+" failed", viz.Bad))
	}
	fmt.Println()
	return nil
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no saved analyses")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tSYSTEM\tREGIME\tζ\tωn\tRESPONSE")
			for _, run := range runs {
				_, values, err := st.LoadSamples(run.ID)
				if err != nil {
					logger.Warn("missing samples", "id", run.ID, "err", err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%s\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					poly.FormatTransferFunction(run.Numerator, run.Denominator),
					run.Regime,
					run.Zeta,
					run.Wn,
					viz.Sparkline(values, 24),
				)
			}
			return w.Flush()
		},
	}
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "show a saved analysis and plot its response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			times, values, err := st.LoadSamples(meta.ID)
			if err != nil {
				return err
			}

			fmt.Println(viz.Heading(meta.ID))
			fmt.Println(viz.Metric("system", poly.FormatTransferFunction(meta.Numerator, meta.Denominator), 22))
			fmt.Println(viz.Metric("loop / input", meta.Loop+" / "+meta.Input, 22))
			fmt.Println(viz.Metric("regime", meta.Regime, 22))
			fmt.Println(viz.Metric("ωn, ζ, K", fmt.Sprintf("%.4f, %.4f, %.4f", meta.Wn, meta.Zeta, meta.Gain), 22))
			for _, name := range sortedKeys(meta.Metrics) {
				fmt.Println(viz.Metric(name, strconv.FormatFloat(meta.Metrics[name], 'f', 4, 64), 22))
			}
			for _, name := range meta.Unbounded {
				fmt.Println(viz.Metric(name, "∞", 22))
			}
			if len(values) > 0 {
				fmt.Println()
				caption := fmt.Sprintf("%d samples on [%.2f, %.2f] s", len(values), times[0], times[len(times)-1])
				fmt.Println(viz.Plot(values, viz.PlotOptions{Caption: caption}))
			}
			return nil
		},
	}
}

func exportCSVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [id]",
		Short: "export the samples of a saved analysis to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return st.ExportCSV(args[0], os.Stdout)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := st.ExportCSV(args[0], f); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outPath)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [id]",
		Short: "export a saved analysis with its samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return st.ExportJSON(args[0], os.Stdout)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := st.ExportJSON(args[0], f); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outPath)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "delete a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return st.Delete(args[0])
		},
	}
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset systems usable with --preset",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSYSTEM\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\n", name,
					poly.FormatTransferFunction(p.Config.Numerator, p.Config.Denominator), p.Description)
			}
			w.Flush()
		},
	}
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
