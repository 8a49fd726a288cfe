// Package test contains assertion helpers shared by package tests.
package test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/samepage-network/obsidian-samepage"
)

func caller() (string, int) {
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	return file, line
}

// ExpectErrorCode fails the test unless e is a *samepage.Error with the expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	var se *samepage.Error
	if errors.As(e, &se) && se.Code == expected {
		return
	}

	file, line := caller()
	t.Fatalf("expecting error code %d, got %v at %s:%d", expected, e, file, line)
}

// ExpectPos fails the test unless e is a *samepage.Error reported at line and col.
func ExpectPos(t *testing.T, line, col int, e error) {
	t.Helper()
	var se *samepage.Error
	if errors.As(e, &se) && se.Line == line && se.Col == col {
		return
	}

	file, l := caller()
	t.Fatalf("expecting error at line %d col %d, got %v at %s:%d", line, col, e, file, l)
}
