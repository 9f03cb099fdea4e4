// Package poly provides real polynomial coefficient vectors for transfer
// function analysis.
//
// Coefficients are stored highest power first, so the vector
// [a0 a1 ... an] represents a0·s^n + a1·s^(n-1) + ... + an:
//
//   - [Poly]: coefficient vector with arithmetic (Mul, Add, Scale, Derivative)
//   - [Validate]: characteristic-polynomial checks (non-empty, finite, a0 != 0)
//   - [Poly.Roots]: roots via companion-matrix eigenvalues
//   - [Format], [FormatTransferFunction]: human-readable rendering
//   - [Parse]: space or comma separated coefficient strings
//
// # Example
//
//	p, _ := poly.Parse("1 0.8 4")
//	if err := poly.Validate(p); err != nil {
//	    return err
//	}
//	roots, _ := p.Roots()
package poly
