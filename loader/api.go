package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/btarena/engine/state"
)

// rawArchetype holds an archetype table before compilation.
type rawArchetype struct {
	name  string
	table *lua.LTable
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
	L.SetGlobal("Permanent", lua.LNumber(state.Permanent))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Player { max_health = 100, attack = 15, ... }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.players = append(coll.players, L.CheckTable(1))
		return 0
	}))

	// Archetype "Name" { ... } is curried: Archetype("Name") returns a
	// function that takes the body table.
	L.SetGlobal("Archetype", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.archetypes = append(coll.archetypes, rawArchetype{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Move "Name" { ... } is curried and returns the body tagged with its
	// name, for use inside an archetype's moves list.
	L.SetGlobal("Move", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__move", lua.LString(name))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Phase { above = 50, Weight(...), ... } tags and returns the table.
	L.SetGlobal("Phase", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString("__phase", lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Weight("Move", 60)
	L.SetGlobal("Weight", L.NewFunction(func(L *lua.LState) int {
		move := L.CheckString(1)
		weight := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("weight"))
		tbl.RawSetString("move", lua.LString(move))
		tbl.RawSetString("weight", weight)
		L.Push(tbl)
		return 1
	}))

	// GrantElement("Ice", turns). Without turns the element is permanent.
	L.SetGlobal("GrantElement", L.NewFunction(func(L *lua.LState) int {
		element := L.CheckString(1)
		turns := L.OptNumber(2, 0)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("grant_element"))
		tbl.RawSetString("element", lua.LString(element))
		tbl.RawSetString("turns", turns)
		L.Push(tbl)
		return 1
	}))

	// GrantStatus targets the archetype itself, ApplyStatus its opponent.
	// Both take (ailment, duration, magnitude, chance); magnitude and
	// chance are optional.
	L.SetGlobal("GrantStatus", statusHelper(L, "grant_status"))
	L.SetGlobal("ApplyStatus", statusHelper(L, "apply_status"))
}

func statusHelper(L *lua.LState, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		ailment := L.CheckString(1)
		duration := L.CheckNumber(2)
		magnitude := L.OptNumber(3, 0)
		chance := L.OptNumber(4, 0)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(kind))
		tbl.RawSetString("ailment", lua.LString(ailment))
		tbl.RawSetString("duration", duration)
		tbl.RawSetString("magnitude", magnitude)
		tbl.RawSetString("chance", chance)
		L.Push(tbl)
		return 1
	})
}
