package engine

import (
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/js-runtime/errors"
)

// Platform holds process-wide engine state: the logger and the shared
// program cache. One Platform serves any number of environments.
type Platform struct {
	log      *zap.Logger
	mu       sync.RWMutex
	programs map[string]*Program
}

// Option configures a Platform.
type Option func(*Platform)

// WithLogger sets the platform logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Platform) {
		p.log = l
	}
}

// NewPlatform creates a platform. Hosts that embed more than one runtime
// should construct one Platform and hand it to each.
func NewPlatform(opts ...Option) *Platform {
	p := &Platform{
		programs: make(map[string]*Program),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = Logger()
	}
	return p
}

var (
	defaultOnce     sync.Once
	defaultPlatform *Platform
)

// Default returns the process-wide shared platform, creating it on first use.
func Default() *Platform {
	defaultOnce.Do(func() {
		defaultPlatform = NewPlatform()
	})
	return defaultPlatform
}

// Log returns the platform logger.
func (p *Platform) Log() *zap.Logger {
	return p.log
}

// Compile compiles source into an environment-independent Program. The
// origin names the script for stack traces and error messages.
func (p *Platform) Compile(origin, source string) (*Program, error) {
	prog, err := goja.Compile(origin, source, false)
	if err != nil {
		return nil, errors.ScriptException(errors.PhaseCompile, origin, err)
	}
	return &Program{origin: origin, prog: prog}, nil
}

// CompileShared compiles source once and caches it under origin. Later calls
// with the same origin and source return the cached Program; the same origin
// with different source recompiles and replaces the entry.
func (p *Platform) CompileShared(origin, source string) (*Program, error) {
	p.mu.RLock()
	cached, ok := p.programs[origin]
	p.mu.RUnlock()
	if ok && cached.source == source {
		return cached, nil
	}

	prog, err := p.Compile(origin, source)
	if err != nil {
		return nil, err
	}
	prog.source = source

	p.mu.Lock()
	p.programs[origin] = prog
	p.mu.Unlock()

	debugf("compiled shared program %q", origin)
	return prog, nil
}

// SharedProgram returns the cached program for origin, if any.
func (p *Platform) SharedProgram(origin string) (*Program, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prog, ok := p.programs[origin]
	return prog, ok
}
