/*
Package observability turns dispatch lifecycle hooks into metrics and logs.

Metrics registers Prometheus collectors and exposes them as domain.LifecycleHooks;
LogHooks writes the same notifications to a slog.Logger. Combine several sets with
domain.MergeHooks before passing them to arbor.WithLifecycleHooks.
*/
package observability
