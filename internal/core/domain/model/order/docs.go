// Package order provides the Order aggregate of the orders domain together with
// its line items, its payment and the lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding identity, owner, total, items and status
//   - Item: a line item with a price snapshot taken when the order was created
//   - Payment: the single settlement record of an order
//   - Status and Transition: the closed set of statuses and the one table of legal edges
//   - StatusChanged: the event recorded for creation and for every transition
//
// Key business rules:
//   - Status follows CREATED -> PAID -> SHIPPED -> COMPLETED with no skips and no reversals
//   - The total is the sum of price*quantity over the items and never changes afterwards
//   - An order is paid exactly once, for exactly its total
//   - Item prices are snapshots and are never re-read from the catalog
package order
