// Package binparams expands compact binning parameter lists into bin
// boundaries.
//
// A list has the form x0, d0, x1, d1, x2, ... : each step d runs from the
// previous boundary up to the next one. A positive d is a linear step; a
// negative d is a logarithmic step of x*|d|.
package binparams
