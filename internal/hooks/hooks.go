// Package hooks runs user-supplied JavaScript hook files with goja.
//
// Every *.js file in the hooks directory is evaluated into one runtime.
// Known hook functions:
//
//	decorateTaskRow(task) -> string   badge appended to a list row
//	celebrate(task)       -> string   replaces the "task completed" notice
package hooks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"cute-todo/internal/logging"
)

// Names lists the hook functions the app calls.
var Names = []string{"decorateTaskRow", "celebrate"}

type HookEnv struct {
	rt  *goja.Runtime
	log *log.Logger
}

// LoadDir evaluates every .js file in dir. A missing dir yields an empty env;
// files that fail to evaluate are logged and skipped.
func LoadDir(dir string, logger *log.Logger) (*HookEnv, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	env := &HookEnv{rt: goja.New(), log: logger.WithPrefix("hooks")}
	if dir == "" {
		return env, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			env.log.Warn("read hooks dir", "dir", dir, "err", err)
		}
		return env, nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if err := env.Eval(name, string(b)); err != nil {
			env.log.Error("evaluate", "file", name, "err", err)
		} else {
			env.log.Debug("loaded", "file", name)
		}
	}
	for _, fn := range Names {
		if env.Has(fn) {
			env.log.Debug("function available", "name", fn)
		}
	}
	return env, nil
}

// Eval runs one script in the env. Simple ESM exports are stripped first.
func (h *HookEnv) Eval(name, code string) error {
	code = strings.ReplaceAll(code, "export function ", "function ")
	code = strings.ReplaceAll(code, "export const ", "const ")
	code = strings.ReplaceAll(code, "export let ", "let ")
	code = strings.ReplaceAll(code, "export var ", "var ")
	_, err := h.rt.RunScript(name, code)
	return err
}

// Has reports whether fn is defined as a function.
func (h *HookEnv) Has(fn string) bool {
	if h == nil || h.rt == nil {
		return false
	}
	_, ok := goja.AssertFunction(h.rt.Get(fn))
	return ok
}

func (h *HookEnv) Call(fn string, arg any) (goja.Value, bool) {
	if h == nil || h.rt == nil {
		return goja.Undefined(), false
	}
	f, ok := goja.AssertFunction(h.rt.Get(fn))
	if !ok {
		return goja.Undefined(), false
	}
	rv, err := f(goja.Undefined(), h.rt.ToValue(arg))
	if err != nil {
		h.log.Warn("call failed", "fn", fn, "err", err)
		return goja.Undefined(), false
	}
	return rv, true
}

// CallString calls fn and returns its result when it is a non-empty string.
func (h *HookEnv) CallString(fn string, arg any) (string, bool) {
	rv, ok := h.Call(fn, arg)
	if !ok || goja.IsUndefined(rv) || goja.IsNull(rv) {
		return "", false
	}
	s, isStr := rv.Export().(string)
	if !isStr || s == "" {
		return "", false
	}
	return s, true
}
