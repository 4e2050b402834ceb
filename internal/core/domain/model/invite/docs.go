// Package invite models operator invite codes used to grow a fleet.
package invite
