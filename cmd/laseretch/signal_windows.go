//go:build windows

package main

import "os"

// shutdownSignals cancel the command context. SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
