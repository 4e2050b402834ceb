// Package payment holds the settlement record of a job: the commission split,
// the charge state driven by provider events and the contractor payout state.
//
// Local state only moves after the provider confirmed the change; the
// application layer calls the gateway first and mutates the aggregate on
// success.
package payment
