// Package infra contains technical adapters such as the zerolog logger,
// metrics exporters and the MQTT result publisher. These packages depend
// only on the interfaces defined in the core packages.
package infra
