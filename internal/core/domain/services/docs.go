// Package services provides domain services that coordinate more than one
// aggregate of the orders domain.
//
// The package includes:
//   - OrderPricer: builds a new order from requested lines and the current catalog,
//     taking the price snapshot for every line
package services
