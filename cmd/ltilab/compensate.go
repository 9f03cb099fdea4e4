package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ltilab/internal/control"
	"github.com/san-kum/ltilab/internal/export"
	"github.com/san-kum/ltilab/internal/optim"
	"github.com/san-kum/ltilab/internal/secondorder"
	"github.com/san-kum/ltilab/internal/viz"
)

var (
	kpRange     string
	kiRange     string
	kdRange     string
	criterion   string
	concurrency int
)

func compensateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compensate",
		Short: "compare the plant with a PI, PD or PID compensated loop",
		RunE:  runCompensate,
	}
	addSystemFlags(cmd)
	addControllerFlags(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().StringVar(&imagePath, "image", "", "write a PNG or SVG plot of both responses")
	return cmd
}

func runCompensate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	plant, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	comp, err := cfg.Compensator()
	if err != nil {
		return err
	}

	cmp, err := control.Compare(cmd.Context(), plant, comp, cfg.SimOptions())
	if err != nil {
		return err
	}
	fmt.Println(cmp.Report())
	fmt.Println(viz.PlotMany(
		[][]float64{cmp.Plant.Response.Values, cmp.Compensated.Response.Values},
		viz.PlotOptions{
			Caption: fmt.Sprintf("%s response", cmp.Input),
			Legends: []string{"plant", comp.String()},
		},
	))

	if imagePath == "" {
		return nil
	}
	chart := export.Chart{
		Title:  fmt.Sprintf("%s response with %s", cmp.Input, comp),
		XLabel: "t (s)",
		YLabel: "y(t)",
		Series: []export.Series{
			{Name: "plant", Times: cmp.Plant.Response.Times, Values: cmp.Plant.Response.Values},
			{Name: comp.String(), Times: cmp.Compensated.Response.Times, Values: cmp.Compensated.Response.Values},
		},
	}
	if cmp.Input == secondorder.Step {
		ref := 1.0
		chart.Reference = &ref
	}
	if err := chart.Save(imagePath, 0, 0); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", imagePath)
	return nil
}

func tuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search compensator gains minimizing a tracking-error integral",
		Long: "Searches the gains given as lo:hi:n ranges and reports the compensator\n" +
			"whose unity feedback loop has the lowest IAE, ISE or ITAE.",
		RunE: runTune,
	}
	addSystemFlags(cmd)
	addControllerFlags(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().StringVar(&kpRange, "kp-range", "0.5:10:20", "Kp values as lo:hi:n")
	cmd.Flags().StringVar(&kiRange, "ki-range", "", "Ki values as lo:hi:n")
	cmd.Flags().StringVar(&kdRange, "kd-range", "", "Kd values as lo:hi:n")
	cmd.Flags().StringVar(&criterion, "criterion", "itae", "cost (iae, ise, itae)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel evaluations (0 = GOMAXPROCS)")
	return cmd
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	plant, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	base, err := cfg.Compensator()
	if err != nil {
		return err
	}

	ranges := map[string][]float64{}
	for name, expr := range map[string]string{"Kp": kpRange, "Ki": kiRange, "Kd": kdRange} {
		if expr == "" {
			continue
		}
		r, err := parseRange(expr)
		if err != nil {
			return fmt.Errorf("%s range: %w", name, err)
		}
		ranges[name] = r
	}

	res, err := optim.Tune(cmd.Context(), optim.Tuning{
		Plant:       plant,
		Base:        base,
		Ranges:      ranges,
		Criterion:   criterion,
		Sim:         cfg.SimOptions(),
		Concurrency: concurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(viz.Heading("GAIN SEARCH"))
	fmt.Println(viz.Metric("best", res.Compensator.String(), 12))
	fmt.Println(viz.Metric(strings.ToUpper(criterion), strconv.FormatFloat(res.Cost, 'f', 6, 64), 12))
	fmt.Println(viz.Metric("evaluated", strconv.Itoa(res.Evaluated), 12))
	fmt.Println(viz.Metric("discarded", strconv.Itoa(res.Discarded), 12))
	fmt.Println()

	cmp, err := control.Compare(cmd.Context(), plant, res.Compensator, cfg.SimOptions())
	if err != nil {
		return err
	}
	fmt.Println(cmp.Report())
	return nil
}

// parseRange reads "lo:hi:n", or a single value.
func parseRange(expr string) ([]float64, error) {
	parts := strings.Split(expr, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	case 3:
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, err
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("need at least one value, got %d", n)
		}
		return optim.Linspace(lo, hi, n), nil
	default:
		return nil, fmt.Errorf("want lo:hi:n, got %q", expr)
	}
}
