package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ltilab/internal/export"
	"github.com/san-kum/ltilab/internal/lti"
	"github.com/san-kum/ltilab/internal/poly"
	"github.com/san-kum/ltilab/internal/routh"
	"github.com/san-kum/ltilab/internal/secondorder"
	"github.com/san-kum/ltilab/internal/storage"
	"github.com/san-kum/ltilab/internal/viz"
)

func routhCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routh [coefficients...]",
		Short: "routh-hurwitz stability table of a characteristic polynomial",
		Long: "Builds the Routh table of a characteristic polynomial given as\n" +
			"arguments or with --den. Use -- before negative coefficients.",
		RunE: runRouth,
	}
	addSystemFlags(cmd)
	cmd.Flags().Float64Var(&epsilon, "epsilon", routh.DefaultEpsilon, "value substituted for zero pivots")
	return cmd
}

func runRouth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	coeffs := cfg.Denominator
	if len(args) > 0 {
		p, err := poly.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}
		coeffs = p
	}

	a, err := routh.ComputeWithOptions(coeffs, cfg.RouthOptions())
	if err != nil {
		return err
	}
	if a.RootsErr != nil {
		logger.Warn("root computation failed", "err", a.RootsErr)
	}

	fmt.Println(routh.FormatReport(coeffs, a))
	level := viz.Good
	switch a.Verdict() {
	case routh.Marginal:
		level = viz.Warn
	case routh.Unstable:
		level = viz.Bad
	}
	fmt.Println(viz.Verdict(routh.VerdictText(a), level))
	return nil
}

func analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "second-order parameters and time characteristics",
		RunE:  runAnalyze,
	}
	addSystemFlags(cmd)
	cmd.Flags().IntVar(&points, "points", secondorder.DefaultPoints, "samples saved with --save")
	cmd.Flags().Float64Var(&horizon, "horizon", 0, "time horizon of saved samples (0 = auto)")
	cmd.Flags().BoolVar(&save, "save", false, "save the analysis and its response")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loopType, inputType := cfg.LoopType(), cfg.InputType()

	p, err := secondorder.Extract(cfg.Numerator, cfg.Denominator, loopType)
	if err != nil {
		return err
	}
	c := secondorder.Characterize(p, loopType, inputType)

	fmt.Println(secondorder.FormatReport(p, loopType, inputType))
	fmt.Println(viz.Verdict(p.Regime().String(), regimeLevel(c.Regime)))

	if !save {
		return nil
	}
	tr, err := secondorder.SampleTimeResponse(p, loopType, inputType, cfg.SampleOptions())
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	id, err := st.Save(storage.FromCharacteristics(cfg.Numerator, cfg.Denominator, c), tr.Times(), tr.Values())
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}

func regimeLevel(r secondorder.Regime) viz.Level {
	switch r {
	case secondorder.Unstable:
		return viz.Bad
	case secondorder.Undamped:
		return viz.Warn
	}
	return viz.Good
}

func responseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "response",
		Short: "sampled step or ramp response of a second-order system",
		RunE:  runResponse,
	}
	addSystemFlags(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().IntVar(&points, "points", secondorder.DefaultPoints, "number of samples")
	cmd.Flags().Float64Var(&horizon, "horizon", 0, "time horizon in seconds (0 = auto)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "overlay a numerical simulation of the full transfer function")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write samples to a CSV file (- for stdout)")
	cmd.Flags().StringVar(&imagePath, "image", "", "write a PNG or SVG plot")
	return cmd
}

func runResponse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loopType, inputType := cfg.LoopType(), cfg.InputType()

	p, err := secondorder.Extract(cfg.Numerator, cfg.Denominator, loopType)
	if err != nil {
		return err
	}
	tr, err := secondorder.SampleTimeResponse(p, loopType, inputType, cfg.SampleOptions())
	if err != nil {
		return err
	}
	logger.Debug("sampled response", "trajectory", tr.String())

	chart := export.Chart{
		Title:  fmt.Sprintf("%s response, %s", inputType, p),
		XLabel: "t (s)",
		YLabel: "y(t)",
		Series: []export.Series{{Name: "closed form", Times: tr.Times(), Values: tr.Values()}},
	}
	if c := secondorder.Characterize(p, loopType, inputType); inputType == secondorder.Step && c.FinalValue.Defined {
		chart.Reference = &c.FinalValue.Value
	}

	if simulate {
		tf, err := cfg.TransferFunction()
		if err != nil {
			return err
		}
		opts := cfg.SimOptions()
		opts.Duration = tr.Horizon()
		resp, err := lti.Simulate(cmd.Context(), tf, opts)
		if err != nil {
			return err
		}
		if resp.Diverged {
			logger.Warn("simulated response diverged", "samples", len(resp.Values))
		}
		chart.Series = append(chart.Series, export.Series{Name: "simulated", Times: resp.Times, Values: resp.Values})
	}

	var plotted [][]float64
	var legends []string
	for _, s := range chart.Series {
		plotted = append(plotted, s.Values)
		legends = append(legends, s.Name)
	}
	fmt.Println(viz.PlotMany(plotted, viz.PlotOptions{Caption: tr.String(), Legends: legends}))

	if csvPath != "" {
		if err := writeCSV(csvPath, tr.Times(), tr.Values()); err != nil {
			return err
		}
	}
	if imagePath != "" {
		if err := chart.Save(imagePath, 0, 0); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", imagePath)
	}
	return nil
}

func writeCSV(path string, times, values []float64) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := storage.WriteCSV(w, times, values); err != nil {
		return err
	}
	logger.Info("wrote samples", "path", path, "samples", len(times))
	return nil
}

func polesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poles",
		Short: "poles and zeros of G(s) and of its unity feedback loop",
		RunE:  runPoles,
	}
	addSystemFlags(cmd)
	cmd.Flags().StringVar(&imagePath, "image", "", "write a PNG or SVG pole-zero map of G(s)")
	return cmd
}

func runPoles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tf, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	fmt.Println(lti.PoleZeroReport("TRANSFER FUNCTION G(s)", tf))

	closed, err := lti.Feedback(tf)
	if err != nil {
		return err
	}
	fmt.Println(lti.PoleZeroReport("UNITY FEEDBACK G/(1+G)", closed))

	if imagePath == "" {
		return nil
	}
	poles, err := tf.Poles()
	if err != nil {
		return err
	}
	zeros, err := tf.Zeros()
	if err != nil {
		return err
	}
	m := export.PoleZeroMap{Title: tf.String(), Poles: poles, Zeros: zeros}
	if err := m.Save(imagePath, 0, 0); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", imagePath)
	return nil
}
