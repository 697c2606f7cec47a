package hooks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirAndCall(t *testing.T) {
	dir := t.TempDir()
	js := `export function decorateTaskRow(t) { return t.overdue ? "late" : ""; }
function celebrate(t) { return "nice: " + t.text; }`
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte(js), 0o644); err != nil {
		t.Fatal(err)
	}
	// broken files are skipped, not fatal
	if err := os.WriteFile(filepath.Join(dir, "b.js"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	env, err := LoadDir(dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !env.Has("decorateTaskRow") || !env.Has("celebrate") {
		t.Fatal("expected both hooks defined")
	}
	if s, ok := env.CallString("celebrate", map[string]any{"text": "Buy milk"}); !ok || s != "nice: Buy milk" {
		t.Fatalf("celebrate = %q, %v", s, ok)
	}
	if s, ok := env.CallString("decorateTaskRow", map[string]any{"overdue": false}); ok {
		t.Fatalf("empty string should not count as a result, got %q", s)
	}
	if s, ok := env.CallString("decorateTaskRow", map[string]any{"overdue": true}); !ok || s != "late" {
		t.Fatalf("decorateTaskRow = %q, %v", s, ok)
	}
}

func TestMissingDirAndFunctions(t *testing.T) {
	env, err := LoadDir(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if env.Has("celebrate") {
		t.Fatal("no hooks expected")
	}
	if _, ok := env.CallString("celebrate", nil); ok {
		t.Fatal("call on undefined function should fail")
	}
	var nilEnv *HookEnv
	if _, ok := nilEnv.Call("celebrate", nil); ok {
		t.Fatal("nil env call should fail")
	}
}

func TestThrowingHook(t *testing.T) {
	env, _ := LoadDir("", nil)
	if err := env.Eval("t.js", `function celebrate() { throw new Error("boom"); }`); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.CallString("celebrate", map[string]any{}); ok {
		t.Fatal("throwing hook should report failure")
	}
}
