// Package dispatch carries the non-transactional half of every job and
// payment operation: live pushes, SMS and email, queued during the unit of
// work and delivered after it commits.
package dispatch
