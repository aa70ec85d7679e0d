// Package domain holds the pure rules of the territory influence system:
// bounded influence values, control classification, decay math, and the
// benefit table. Nothing in this package touches storage or I/O.
package domain
