// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// defaultApp is the default application assumed when either no arguments
// are specified or the first argument starts with a -.
const defaultApp = "emberd"

// argN either returns the argument at the provided position within the
// given args array when it exists or an empty string otherwise.
func argN(args []string, n int) string {
	if len(args) > n {
		return args[n]
	}
	return ""
}

// prepend returns a new slice that consists of the provided value followed
// by the given args.
func prepend(args []string, val string) []string {
	newArgs := make([]string, 0, len(args)+1)
	newArgs = append(newArgs, val)
	newArgs = append(newArgs, args...)
	return newArgs
}

// dirExists reports whether the named directory exists.
func dirExists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}

func main() {
	// Local copy of supplied arguments without the invoking process.  This
	// allows the params to be modified independently below as needed.
	args := make([]string, len(os.Args)-1)
	copy(args, os.Args[1:])

	// Assume the provided arguments are for the default app when the
	// first parameter starts with a dash.
	if arg0 := argN(args, 0); arg0 == "" || arg0[0] == '-' {
		fmt.Printf("entrypoint: assuming arguments for %s\n", defaultApp)
		args = prepend(args, defaultApp)
	}

	// Rotate log files into the conventional container volume when it is
	// mounted and the caller did not choose a log directory explicitly.
	if argN(args, 0) == defaultApp && dirExists("/data") {
		hasLogDir := false
		for _, arg := range args {
			if strings.HasPrefix(arg, "--logdir") {
				hasLogDir = true
				break
			}
		}
		if !hasLogDir {
			args = append(args, "--logdir=/data/logs")
		}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
