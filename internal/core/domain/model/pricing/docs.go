// Package pricing holds the admin-managed pricing configuration: unit price
// rules per item category and surge zones.
package pricing
