package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/daniacca/ecosim/internal/eco"
)

// promptConfig collects simulation parameters step by step, re-prompting on
// invalid input. When the requested populations exceed the grid capacity
// the whole sequence restarts, because fixing the overflow may mean
// changing any of the earlier answers.
func promptConfig(in io.Reader, out io.Writer) eco.Config {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "\nWelcome to the Ecosystem Simulator setup!")
	fmt.Fprintln(out, "Please enter simulation parameters one by one:")
	fmt.Fprintln(out)

	for {
		cfg := eco.DefaultConfig()

		cfg.Width = promptInt(scanner, out, "Enter grid width (>0): ", false)
		cfg.Height = promptInt(scanner, out, "Enter grid height (>0): ", false)
		capacity := cfg.Width * cfg.Height
		fmt.Fprintf(out, "Grid capacity: %d cells\n\n", capacity)

		cfg.Plants = promptInt(scanner, out, "Enter initial number of plants (>=0): ", true)
		cfg.Herbivores = promptInt(scanner, out, "Enter initial number of herbivores (>=0): ", true)
		cfg.Carnivores = promptInt(scanner, out, "Enter initial number of carnivores (>=0): ", true)

		if total := cfg.Plants + cfg.Herbivores + cfg.Carnivores; total > capacity {
			fmt.Fprintf(out, "Total organisms (%d) exceed grid capacity (%d). Please re-enter all parameters.\n\n", total, capacity)
			continue
		}

		cfg.Ticks = promptInt(scanner, out, "Enter number of simulation ticks (>0): ", false)

		fmt.Fprintf(out, "\nSimulation parameters accepted:\n")
		fmt.Fprintf(out, "  Grid size: %d x %d\n", cfg.Width, cfg.Height)
		fmt.Fprintf(out, "  Plants: %d\n", cfg.Plants)
		fmt.Fprintf(out, "  Herbivores: %d\n", cfg.Herbivores)
		fmt.Fprintf(out, "  Carnivores: %d\n", cfg.Carnivores)
		fmt.Fprintf(out, "  Simulation ticks: %d\n\n", cfg.Ticks)

		return cfg
	}
}

// promptInt keeps asking until it reads a valid integer: positive, or
// non-negative when allowZero is set.
func promptInt(scanner *bufio.Scanner, out io.Writer, prompt string, allowZero bool) int {
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			// Input exhausted: nothing sensible left to do but bail out
			// with a value the validator will reject upstream.
			return 0
		}
		text := strings.TrimSpace(scanner.Text())
		value, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintln(out, "Invalid input: please enter a valid integer (digits only).")
			continue
		}
		if value < 0 || (!allowZero && value == 0) {
			if allowZero {
				fmt.Fprintln(out, "Invalid input: value cannot be negative.")
			} else {
				fmt.Fprintln(out, "Invalid input: value must be positive.")
			}
			continue
		}
		return value
	}
}
