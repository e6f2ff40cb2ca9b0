package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScriptFrameHook(t *testing.T) {
	m := NewMachine(NewCartridge(testROM()), nil)
	path := writeScript(t, `
count = 0
function frame()
	count = count + 1
	sms.poke(0xC010, count)
end
`)
	if err := m.AttachScript(path); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := m.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}
	requireZ80EqualU8(t, "hook counter", m.Peek(0xC010), 2)
}

func TestScriptPeekAndRegisters(t *testing.T) {
	m := NewMachine(NewCartridge(testROM()), nil)
	m.Poke(0xC001, 7)
	path := writeScript(t, `
function frame()
	if sms.peek(0xC001) == 7 and sms.pc() >= 0 then
		sms.poke(0xC002, 1)
	end
end
`)
	if err := m.AttachScript(path); err != nil {
		t.Fatal(err)
	}

	if err := m.RunFrame(); err != nil {
		t.Fatal(err)
	}
	requireZ80EqualU8(t, "probe", m.Peek(0xC002), 1)
}

func TestScriptWithoutHook(t *testing.T) {
	m := NewMachine(NewCartridge(testROM()), nil)
	path := writeScript(t, `-- setup only, no frame hook
sms.poke(0xC003, 9)
`)
	if err := m.AttachScript(path); err != nil {
		t.Fatal(err)
	}
	requireZ80EqualU8(t, "setup poke", m.Peek(0xC003), 9)

	if err := m.RunFrame(); err != nil {
		t.Fatal(err)
	}
}

func TestScriptErrorsPropagate(t *testing.T) {
	m := NewMachine(NewCartridge(testROM()), nil)
	path := writeScript(t, `function frame() error("boom") end`)
	if err := m.AttachScript(path); err != nil {
		t.Fatal(err)
	}

	err := m.RunFrame()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want the script error", err)
	}
}

func TestScriptMissingFile(t *testing.T) {
	m := NewMachine(NewCartridge(testROM()), nil)
	if err := m.AttachScript(filepath.Join(t.TempDir(), "absent.lua")); err == nil {
		t.Fatalf("missing script must error")
	}
}
