package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/btarena/engine/state"
	"github.com/nathoo/btarena/logger"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	players    []*lua.LTable
	archetypes []rawArchetype
}

// Load reads all .lua files from dir and compiles them over the built-in
// definitions: a Player{} block replaces the default profile, and each
// Archetype adds to the roster or replaces the built-in of the same name.
// The Lua VM is discarded after loading.
func Load(dir string) (*state.Defs, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs := state.DefaultDefs()
	names, err := compile(coll, defs)
	if err != nil {
		return nil, fmt.Errorf("compiling roster: %w", err)
	}

	ve := validate(defs, names)
	for _, w := range ve.Warnings {
		logger.Log.WithField("roster", dir).Warn(w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	logger.Log.WithFields(logrus.Fields{
		"roster":     dir,
		"files":      len(luaFiles),
		"archetypes": names,
	}).Debug("roster loaded")
	return defs, nil
}

// sortedLuaFiles returns the files with player.lua first and the rest in
// alphabetical order.
func sortedLuaFiles(files []string) []string {
	var player string
	var rest []string
	for _, f := range files {
		if f == "player.lua" {
			player = f
		} else {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	if player != "" {
		return append([]string{player}, rest...)
	}
	return rest
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
