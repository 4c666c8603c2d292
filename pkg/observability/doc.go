/*
Package observability provides metrics for the knock-knock service.

Metrics is fed by the engine lifecycle hooks and by the session driver, and
exposes its collectors on a private Prometheus registry. Handler mounts that
registry on a chi router together with a health probe.
*/
package observability
