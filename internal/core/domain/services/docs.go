// Package services provides the domain services of the marketplace: logic
// that spans several aggregates or has no natural owner.
//
// The package includes:
//   - PricingEngine: item, volume and surge based price estimates
//   - GeoMatcher: radius matching of contractors around a job
//   - TransitionPolicy: who may move a job along which edge
//   - SettlementCalculator: commission and payout split of a payment
//   - NotificationPlanner: wording and recipients of user notifications
//
// Services are pure: they take aggregates and return values or errors and
// never touch persistence.
package services
