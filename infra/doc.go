// Package infra contains technical adapters such as the solar data loader,
// the zerolog logger and metrics exporters. These packages should depend
// only on the interfaces defined in the core packages.
package infra
