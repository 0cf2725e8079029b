// Package ports defines the boundary interfaces between the traversal core
// and its collaborators: graph registries, state stores, lockers and graph
// sources. Adapters live under pkg/adapters; the core depends only on the
// interfaces here.
package ports
