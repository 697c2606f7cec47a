package version

import "runtime/debug"

var (
	// Version is set via ldflags at build time.
	Version = "dev"
	// Commit is the VCS revision, set via ldflags.
	Commit = ""
	// Date is the build timestamp in RFC3339, set via ldflags.
	Date = ""
)

// String renders "cute-todo <version>[+commit] [(date)]". Without ldflags the
// revision recorded by the go toolchain is used.
func String() string {
	commit := Commit
	if commit == "" {
		commit = buildRevision()
	}
	s := "cute-todo " + Version
	if commit != "" {
		s += "+" + commit
	}
	if Date != "" {
		s += " (" + Date + ")"
	}
	return s
}

func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, kv := range info.Settings {
		if kv.Key == "vcs.revision" && len(kv.Value) >= 7 {
			return kv.Value[:7]
		}
	}
	return ""
}
