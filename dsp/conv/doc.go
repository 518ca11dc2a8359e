// Package conv provides direct time-domain convolution.
//
// [Direct] computes exact O(N*M) linear convolution. It is intended for
// short operands: FIR kernels, linear-prediction coefficient vectors, and
// the polynomial products that arise when cascading filters, where a
// convolution of the coefficient vectors multiplies the transfer functions:
//
//	cascade, err := conv.Direct(a1, a2) // A1(z) * A2(z)
//
// For repeated calls with pre-allocated output, use [DirectTo].
package conv
