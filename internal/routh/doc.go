// Package routh builds Routh-Hurwitz stability tables.
//
// [Compute] validates a characteristic polynomial (highest power first),
// builds the Routh array, counts first-column sign changes and computes
// the polynomial roots for display:
//
//	a, err := routh.Compute([]float64{5, 4, 6, 9, 8, 7})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(a.RHPPoles, a.Verdict())
//	fmt.Println(routh.FormatReport([]float64{5, 4, 6, 9, 8, 7}, a))
//
// # Degenerate tables
//
// A zero first-column pivot is replaced by a small epsilon (0.01 unless
// [Options] overrides it) and a row of zeros is replaced by the derivative
// of the auxiliary polynomial formed from the row above. Both substitutions
// are recorded in [Analysis.Degenerate] because they can hide roots on the
// imaginary axis; such tables report [Marginal] rather than [Stable].
package routh
