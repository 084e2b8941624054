// Package zone holds the registry of time zones a clock card can be bound to.
//
// Every zone is a fixed UTC offset in whole hours plus a display name. The
// registry is built once at startup and never changes afterwards.
package zone
