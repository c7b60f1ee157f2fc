// Package organizer repairs single-child nesting artifacts left behind by the
// download tool and moves finished album folders into the seeding destination.
package organizer
