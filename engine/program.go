package engine

import "github.com/dop251/goja"

// Program is a compiled, environment-independent script. Programs carry no
// reference to any environment and may be run in several.
type Program struct {
	origin string
	source string // set only for shared (cached) programs
	prog   *goja.Program
}

// Origin returns the script name the program was compiled under.
func (p *Program) Origin() string {
	return p.origin
}
