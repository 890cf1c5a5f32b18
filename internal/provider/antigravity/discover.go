package antigravity

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/qburn/internal/provider"
)

// runner executes an external command and returns its stdout.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// process is a running Antigravity language server.
type process struct {
	PID           int
	CSRFToken     string
	ExtensionPort int
}

// findProcess scans the process table for the Antigravity language server.
func findProcess(ctx context.Context, run runner) (process, error) {
	out, err := run(ctx, "ps", "-axo", "pid=,command=")
	if err != nil {
		return process{}, fmt.Errorf("listing processes: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if p, ok := parseProcessLine(sc.Text()); ok {
			return p, nil
		}
	}
	return process{}, fmt.Errorf("%w: antigravity language server is not running", provider.ErrNotFound)
}

func parseProcessLine(line string) (process, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return process{}, false
	}
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "language_server") || !strings.Contains(lower, "antigravity") {
		return process{}, false
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return process{}, false
	}

	p := process{PID: pid}
	args := fields[1:]
	for i, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if !hasValue && i+1 < len(args) {
			value = args[i+1]
		}
		switch name {
		case "--csrf_token":
			p.CSRFToken = value
		case "--extension_server_port":
			p.ExtensionPort, _ = strconv.Atoi(value)
		}
	}
	if p.CSRFToken == "" {
		return process{}, false
	}
	return p, true
}

// listeningPorts returns the TCP ports the process listens on, ascending,
// excluding the extension server port.
func listeningPorts(ctx context.Context, run runner, p process) ([]int, error) {
	out, err := run(ctx, "lsof", "-nP", "-a", "-iTCP", "-sTCP:LISTEN", "-p", strconv.Itoa(p.PID))
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("listing ports for pid %d: %w", p.PID, err)
	}
	return parseLsof(out, p.ExtensionPort), nil
}

func parseLsof(out []byte, exclude int) []int {
	seen := map[int]struct{}{}
	var ports []int
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "(LISTEN)") {
			continue
		}
		fields := strings.Fields(line)
		for _, f := range fields {
			idx := strings.LastIndex(f, ":")
			if idx < 0 {
				continue
			}
			port, err := strconv.Atoi(f[idx+1:])
			if err != nil || port == exclude {
				continue
			}
			if _, dup := seen[port]; !dup {
				seen[port] = struct{}{}
				ports = append(ports, port)
			}
		}
	}
	sort.Ints(ports)
	return ports
}
