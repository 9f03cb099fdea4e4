// Package lti models single-input single-output transfer functions of any
// order: composition (series, unity feedback), poles and zeros, a
// state-space realization, and numerically simulated step and ramp
// responses.
package lti
