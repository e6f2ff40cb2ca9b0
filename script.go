// script.go - Lua automation hooks for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost runs a user Lua script with an `sms` table for memory and
// register access. A global frame() function, if the script defines one, is
// called once per emulated frame - enough for cheats, watchpoints and
// automated input checks.
type ScriptHost struct {
	state   *lua.LState
	machine *Machine
	hasHook bool
}

func NewScriptHost(m *Machine, path string) (*ScriptHost, error) {
	s := &ScriptHost{
		state:   lua.NewState(),
		machine: m,
	}
	s.register()
	if err := s.state.DoFile(path); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("script: loading %s: %w", path, err)
	}
	s.hasHook = s.state.GetGlobal("frame") != lua.LNil
	return s, nil
}

func (s *ScriptHost) register() {
	L := s.state
	sms := L.NewTable()
	L.SetGlobal("sms", sms)

	L.SetField(sms, "peek", L.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		L.Push(lua.LNumber(s.machine.Peek(addr)))
		return 1
	}))
	L.SetField(sms, "poke", L.NewFunction(func(L *lua.LState) int {
		addr := uint16(L.CheckInt(1))
		value := byte(L.CheckInt(2))
		s.machine.Poke(addr, value)
		return 0
	}))
	L.SetField(sms, "pc", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.cpu.PC))
		return 1
	}))
	L.SetField(sms, "af", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.cpu.AF()))
		return 1
	}))
	L.SetField(sms, "bc", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.cpu.BC()))
		return 1
	}))
	L.SetField(sms, "de", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.cpu.DE()))
		return 1
	}))
	L.SetField(sms, "hl", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.cpu.HL()))
		return 1
	}))
	L.SetField(sms, "frames", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.machine.frames))
		return 1
	}))
}

// OnFrame invokes the script's frame() hook.
func (s *ScriptHost) OnFrame() error {
	if !s.hasHook {
		return nil
	}
	return s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal("frame"),
		NRet:    0,
		Protect: true,
	})
}

func (s *ScriptHost) Close() {
	s.state.Close()
}
