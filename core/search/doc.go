// Package search computes the largest terminal stock a blueprint can reach
// within a horizon. It walks "which producer to build next" decisions depth
// first, pruning with an optimistic bound, a per-call dominance cache and
// producer saturation limits. Every call owns its state, so independent
// blueprints can be solved concurrently.
package search
