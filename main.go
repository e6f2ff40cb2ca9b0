// main.go - Main entry point for the MasterEngine console emulator

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagBIOS   string
	flagScale  int
	flagScript string
	flagTrace  bool
)

func main() {
	root := &cobra.Command{
		Use:   "masterengine <rom.sms>",
		Short: "Sega Master System emulator",
		Long: "MasterEngine - Sega Master System emulator\n" +
			"(c) 2024 - 2026 Zayn Otley, GPLv3 or later",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(args[0])
		},
	}
	root.Flags().StringVar(&flagBIOS, "bios", "", "boot ROM image (searched in cwd when empty)")
	root.Flags().IntVar(&flagScale, "scale", 3, "integer window scale")
	root.Flags().StringVar(&flagScript, "script", "", "Lua automation script")
	root.PersistentFlags().BoolVar(&flagTrace, "trace", false, "log CPU state per instruction")

	cpm := &cobra.Command{
		Use:   "cpm <program.com>",
		Short: "Run a CP/M program on the bare CPU core",
		Long:  "Runs a CP/M .com image (such as the classic instruction exercisers)\non a flat 64 KB machine with console output trapped at BDOS.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCPM(args[0])
		},
	}
	root.AddCommand(cpm)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "masterengine:", err)
		os.Exit(1)
	}
}

func runConsole(romPath string) error {
	cart, err := LoadCartridge(romPath)
	if err != nil {
		return err
	}
	bios, err := LoadBIOS(flagBIOS)
	if err != nil {
		return err
	}
	if bios == nil {
		log.Printf("no boot ROM found, starting cartridge directly")
	}

	machine := NewMachine(cart, bios)
	machine.SetTrace(flagTrace)
	if flagScript != "" {
		if err := machine.AttachScript(flagScript); err != nil {
			return err
		}
	}

	video, err := NewEbitenOutput()
	if err != nil {
		return err
	}
	if err := machine.AttachVideo(video); err != nil {
		return err
	}
	if flagScale > 0 {
		cfg := video.GetDisplayConfig()
		cfg.Scale = flagScale
		if err := video.SetDisplayConfig(cfg); err != nil {
			return err
		}
	}
	return machine.Run()
}

func runCPM(programPath string) error {
	runner := NewCPMRunner(os.Stdout)
	if err := runner.LoadFile(programPath); err != nil {
		return err
	}
	err := runner.Run(0)
	fmt.Println()
	return err
}
