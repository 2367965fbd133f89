/*
Package session keeps per-session State trees for a shared component tree.

Each session owns one root State, created on its first dispatch. Dispatches into the same
session are serialized by a reference-counted local mutex and, when several replicas
share sessions, by an optional ports.DistributedLocker.
*/
package session
