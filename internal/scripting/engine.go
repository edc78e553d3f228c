package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/loophook/internal/core/hook"
	"github.com/l1jgo/loophook/internal/core/loop"
)

// Engine wraps a single gopher-lua VM whose scripts hook callbacks into the
// loop. Single-goroutine access only (loop goroutine).
type Engine struct {
	vm    *lua.LState
	reg   *hook.Registry
	host  hook.Host
	log    *zap.Logger
	hooks  map[hookKey][]*loop.Update
	closed bool
}

type hookKey struct {
	phase loop.Phase
	name  string
}

// NewEngine creates a Lua engine, installs the loop API and loads all scripts
// from the given directory.
func NewEngine(scriptsDir string, reg *hook.Registry, host hook.Host, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:    vm,
		reg:   reg,
		host:  host,
		log:   log,
		hooks: make(map[hookKey][]*loop.Update),
	}
	e.installAPI()

	// core first so hook scripts can use its helpers
	for _, sub := range []string{"core", "hooks"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// Close unhooks every script callback and shuts the VM down. Calling it
// again is a no-op.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for k, us := range e.hooks {
		for _, u := range us {
			e.reg.Remove(k.phase, u)
		}
	}
	e.hooks = make(map[hookKey][]*loop.Update)
	e.vm.Close()
}

// Exec runs a chunk of Lua source in the engine's VM.
func (e *Engine) Exec(src string) error {
	return e.vm.DoString(src)
}

// HookCount returns the number of live script hooks.
func (e *Engine) HookCount() int {
	n := 0
	for _, us := range e.hooks {
		n += len(us)
	}
	return n
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) installAPI() {
	tbl := e.vm.NewTable()
	e.vm.SetField(tbl, "hook", e.vm.NewFunction(e.luaHook))
	e.vm.SetField(tbl, "unhook", e.vm.NewFunction(e.luaUnhook))
	e.vm.SetField(tbl, "phases", e.vm.NewFunction(e.luaPhases))
	e.vm.SetGlobal("loop", tbl)
}

// loop.hook(phase, name, fn). Hooking a phase the loop does not run does
// nothing and is not counted by HookCount.
func (e *Engine) luaHook(L *lua.LState) int {
	phase := checkPhase(L, 1)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)

	u := loop.NewUpdate("lua:"+name, func(dt time.Duration) {
		e.call(name, fn, dt)
	})
	// Phases outside the layout are a registry no-op; don't track them either.
	if e.host.Current().Find(phase) >= 0 {
		k := hookKey{phase: phase, name: name}
		e.hooks[k] = append(e.hooks[k], u)
	}
	e.reg.Add(phase, u)
	return 0
}

// loop.unhook(phase, name) removes the most recent hook with that name.
// Returns true if one was removed.
func (e *Engine) luaUnhook(L *lua.LState) int {
	phase := checkPhase(L, 1)
	name := L.CheckString(2)

	k := hookKey{phase: phase, name: name}
	us := e.hooks[k]
	if len(us) == 0 {
		L.Push(lua.LFalse)
		return 1
	}
	u := us[len(us)-1]
	if len(us) == 1 {
		delete(e.hooks, k)
	} else {
		e.hooks[k] = us[:len(us)-1]
	}
	e.reg.Remove(phase, u)
	L.Push(lua.LTrue)
	return 1
}

// loop.phases() returns the active phase names in order.
func (e *Engine) luaPhases(L *lua.LState) int {
	tbl := L.NewTable()
	for _, p := range e.host.Current().Tags() {
		tbl.Append(lua.LString(p.String()))
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) call(name string, fn *lua.LFunction, dt time.Duration) {
	err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds()))
	if err != nil {
		e.log.Error("lua hook failed", zap.String("hook", name), zap.Error(err))
	}
}

func checkPhase(L *lua.LState, n int) loop.Phase {
	p, err := loop.ParsePhase(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return p
}
