//go:build !linux

package main

// isTerminal is conservatively false off Linux; pick --log-format
// explicitly there.
func isTerminal(uintptr) bool { return false }
