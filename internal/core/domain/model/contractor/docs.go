// Package contractor models the driver profile: approval, availability,
// location and the two-level operator fleet relationship.
package contractor
