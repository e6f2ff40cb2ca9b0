package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCPMRunnerPutChar(t *testing.T) {
	var out bytes.Buffer
	r := NewCPMRunner(&out)
	if err := r.Load([]byte{
		0x0E, 0x02, // LD C,2
		0x1E, 'A', // LD E,'A'
		0xCD, 0x05, 0x00, // CALL 5
		0xC3, 0x00, 0x00, // JP 0 (warm boot)
	}); err != nil {
		t.Fatal(err)
	}

	if err := r.Run(100); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "A" {
		t.Fatalf("output = %q, want %q", out.String(), "A")
	}
}

func TestCPMRunnerPutString(t *testing.T) {
	program := make([]byte, 0x20)
	copy(program, []byte{
		0x0E, 0x09, // LD C,9
		0x11, 0x10, 0x01, // LD DE,0x0110
		0xCD, 0x05, 0x00, // CALL 5
		0xC3, 0x00, 0x00, // JP 0
	})
	copy(program[0x10:], "Hello$garbage")

	var out bytes.Buffer
	r := NewCPMRunner(&out)
	if err := r.Load(program); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(100); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "Hello" {
		t.Fatalf("output = %q, want %q", out.String(), "Hello")
	}
}

func TestCPMRunnerStepLimit(t *testing.T) {
	r := NewCPMRunner(&bytes.Buffer{})
	if err := r.Load([]byte{
		0x18, 0xFE, // JR -2, spins forever
	}); err != nil {
		t.Fatal(err)
	}

	err := r.Run(10)
	if err == nil || !strings.Contains(err.Error(), "no warm boot") {
		t.Fatalf("err = %v, want a step limit error", err)
	}
}

func TestCPMRunnerPropagatesFault(t *testing.T) {
	r := NewCPMRunner(&bytes.Buffer{})
	if err := r.Load([]byte{
		0xED, 0x77, // hole in the ED grid
	}); err != nil {
		t.Fatal(err)
	}

	err := r.Run(10)
	var fault *OpcodeFault
	if !errors.As(err, &fault) {
		t.Fatalf("err = %v, want OpcodeFault", err)
	}
	if fault.Addr != 0x0100 {
		t.Fatalf("fault at %04X, want 0100", fault.Addr)
	}
}

func TestCPMRunnerRejectsOversizedProgram(t *testing.T) {
	r := NewCPMRunner(&bytes.Buffer{})
	if err := r.Load(make([]byte, 0x10000)); err == nil {
		t.Fatalf("oversized program must be rejected")
	}
}
