package batch

import (
	"context"
	"fmt"

	"github.com/san-kum/ltilab/internal/config"
	"github.com/san-kum/ltilab/internal/control"
	"github.com/san-kum/ltilab/internal/lti"
	"github.com/san-kum/ltilab/internal/routh"
	"github.com/san-kum/ltilab/internal/secondorder"
	"github.com/san-kum/ltilab/internal/storage"
)

func run(ctx context.Context, a Analysis, store *storage.Store) Result {
	r := Result{Name: a.Name, Kind: a.Kind}
	cfg, err := a.Resolve()
	if err != nil {
		r.Err = err
		return r
	}

	switch a.Kind {
	case KindRouth:
		r.Err = runRouth(cfg, &r)
	case KindPoles:
		r.Err = runPoles(cfg, &r)
	case KindCompensate:
		r.Err = runCompensate(ctx, cfg, &r)
	default:
		r.Err = runAnalyze(cfg, &r, a.Save, store)
	}
	return r
}

func runRouth(cfg *config.Config, r *Result) error {
	an, err := routh.ComputeWithOptions(cfg.Denominator, cfg.RouthOptions())
	if err != nil {
		return err
	}
	r.Report = routh.FormatReport(cfg.Denominator, an)
	r.Stable = an.Stable()
	return nil
}

func runPoles(cfg *config.Config, r *Result) error {
	tf, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	poles, err := tf.Poles()
	if err != nil {
		return err
	}
	r.Report = lti.PoleZeroReport("TRANSFER FUNCTION", tf)
	r.Stable = lti.ClassifyPoles(poles) == lti.Stable
	return nil
}

func runCompensate(ctx context.Context, cfg *config.Config, r *Result) error {
	tf, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	comp, err := cfg.Compensator()
	if err != nil {
		return err
	}
	cmp, err := control.Compare(ctx, tf, comp, cfg.SimOptions())
	if err != nil {
		return err
	}
	r.Report = cmp.Report()
	poles, err := cmp.Compensated.System.Poles()
	if err != nil {
		return err
	}
	r.Stable = lti.ClassifyPoles(poles) == lti.Stable
	return nil
}

func runAnalyze(cfg *config.Config, r *Result, save bool, store *storage.Store) error {
	tf, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	loop, input := cfg.LoopType(), cfg.InputType()
	p, err := tf.SecondOrder(loop)
	if err != nil {
		return err
	}
	c := secondorder.Characterize(p, loop, input)
	r.Report = secondorder.FormatReport(p, loop, input)
	r.Stable = c.Stable()

	if !save || store == nil {
		return nil
	}
	tr, err := secondorder.SampleTimeResponse(p, loop, input, cfg.SampleOptions())
	if err != nil {
		return err
	}
	id, err := store.Save(storage.FromCharacteristics(cfg.Numerator, cfg.Denominator, c), tr.Times(), tr.Values())
	if err != nil {
		return fmt.Errorf("save %s: %w", r.Name, err)
	}
	r.SavedID = id
	return nil
}
