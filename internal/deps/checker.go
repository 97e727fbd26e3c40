// Package deps checks that the CLIs a target shells out to are on PATH.
package deps

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// LookPath resolves a command on PATH. Tests replace it.
var LookPath = exec.LookPath

// Check resolves dep's CheckCommands in order; the first hit wins.
func Check(_ context.Context, dep sources.Dependency) sources.DependencyStatus {
	for _, name := range dep.CheckCommands {
		if path, err := LookPath(name); err == nil {
			return sources.DependencyStatus{Available: true, Path: path}
		}
	}
	if len(dep.CheckCommands) == 0 {
		return sources.DependencyStatus{}
	}
	return sources.DependencyStatus{CheckError: &errors.DependencyError{
		Dependency: dep.DisplayName,
		Message:    "not found in PATH (tried: " + strings.Join(dep.CheckCommands, ", ") + ")",
	}}
}

// CheckAll returns the status of every dependency of src keyed by name.
func CheckAll(ctx context.Context, src sources.Source) map[string]sources.DependencyStatus {
	list := src.Dependencies()
	if len(list) == 0 {
		return nil
	}
	out := make(map[string]sources.DependencyStatus, len(list))
	for _, dep := range list {
		out[dep.Name] = Check(ctx, dep)
	}
	return out
}

// Missing returns src's uninstalled dependencies in declaration order and
// the check error of the first one.
func Missing(ctx context.Context, src sources.Source) (missing []sources.Dependency, err error) {
	for _, dep := range src.Dependencies() {
		st := Check(ctx, dep)
		if st.Available || len(dep.CheckCommands) == 0 {
			continue
		}
		missing = append(missing, dep)
		if err == nil {
			err = st.CheckError
		}
	}
	return missing, err
}

// Summarize prints install hints for missing. It prints nothing when
// missing is empty.
func Summarize(w io.Writer, target string, missing []sources.Dependency) {
	if len(missing) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s requires the following dependencies:\n", target)
	for _, dep := range missing {
		fmt.Fprintf(&b, "  • %s - %s\n", dep.DisplayName, dep.Description)
		if dep.InstallURL != "" {
			fmt.Fprintf(&b, "    Install: %s\n", dep.InstallURL)
		}
	}
	_, _ = io.WriteString(w, b.String())
}
