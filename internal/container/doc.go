// Package container implements the domain.ContainerManager contract on the
// Docker Engine API: it builds the runner image, keeps a named container
// around between runs, and execs/probes/kills the runner process inside it.
package container
