// Package nfs queries NFS servers for their exported paths and turns
// accepted exports into desired mount specs.
package nfs

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/messages"
)

// Export is one advertised NFS export.
type Export struct {
	Path    string
	Clients string
}

// UnreachableError reports that a server did not answer the export query.
// Callers distinguish it from local failures with errors.As.
type UnreachableError struct {
	Server string
	Err    error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf(messages.NFSUnreachableFmt, e.Server, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Discoverer queries a server's export list via showmount.
type Discoverer struct {
	Runner execx.Runner
}

// Discover returns the exports advertised by server, sorted as the server
// lists them. A server that answers with an empty list yields an empty slice
// and no error.
func (d Discoverer) Discover(server string) ([]Export, error) {
	out, err := d.Runner.Output("showmount", "-e", "--no-headers", server)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.New(messages.NFSShowmountMissing)
		}
		return nil, &UnreachableError{Server: server, Err: err}
	}
	return parseExports(out), nil
}

// parseExports reads showmount's no-headers output: one export per line,
// path first, then the allowed client list.
func parseExports(out string) []Export {
	var exports []Export
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
			continue
		}
		export := Export{Path: fields[0]}
		if len(fields) > 1 {
			export.Clients = strings.Join(fields[1:], " ")
		}
		exports = append(exports, export)
	}
	return exports
}
