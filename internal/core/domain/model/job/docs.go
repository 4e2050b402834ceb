// Package job provides the Job aggregate: the central entity of the marketplace
// whose lifecycle runs from booking through assignment and execution to
// completion or cancellation.
//
// The package includes:
//   - Job: the aggregate root holding ownership (customer, driver, operator),
//     site data, photos, lifecycle timestamps and the price breakdown
//   - Status: the state machine of allowed transitions
//   - LineItem: a typed item line with an open extension map
//   - PriceBreakdown: price components whose total is always derived
//
// Key business rules:
//   - A job starts pending; only accept, admin assignment, routing to an
//     operator and delegation change who owns it
//   - Entering started records started_at; entering completed records
//     completed_at
//   - Cancellation is impossible once the job has started
//   - The total price cannot be set independently of its components
package job
