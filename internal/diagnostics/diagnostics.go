// Package diagnostics holds the development-only modules that inspect the
// local chain. Loading a module never fails its caller: errors and panics are
// logged and reported in the Result.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mintdeck/internal/ledger"
	"mintdeck/internal/logging"
	"mintdeck/internal/trace"
	"mintdeck/internal/web3"
)

// ErrDuplicateModule is returned when a module name is registered twice.
var ErrDuplicateModule = errors.New("duplicate diagnostic module")

// Chain is the subset of the context boundary the modules read and repair.
// *web3.Context satisfies it.
type Chain interface {
	Account() (string, bool)
	Gallery(ctx context.Context) ([]ledger.Token, error)
	MyTokens(ctx context.Context) ([]ledger.Token, error)
	SetTokenURI(ctx context.Context, tokenID int64, uri string) (web3.Receipt, error)
	MintEvents(ctx context.Context, tokenID int64) (int, error)
}

var _ Chain = (*web3.Context)(nil)

// Env is what a module runs against.
type Env struct {
	Chain   Chain
	Gateway string
}

// Report is a module's output. Changed is set when the module wrote to the
// ledger, so views holding token data must reload.
type Report struct {
	Summary  string
	Findings []string
	Changed  bool
}

// Module is one diagnostic utility.
type Module struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env Env) (Report, error)
}

// Result is the outcome of loading one module.
type Result struct {
	Module   string
	Report   Report
	Err      error
	Duration time.Duration
}

// OK reports whether the load succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Registry is an ordered set of modules.
type Registry struct {
	modules []Module
	byName  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds m. Names must be unique and modules must have a Run func.
func (r *Registry) Register(m Module) error {
	if m.Name == "" || m.Run == nil {
		return fmt.Errorf("diagnostic module %q: name and run are required", m.Name)
	}
	if _, ok := r.byName[m.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name)
	}
	r.byName[m.Name] = len(r.modules)
	r.modules = append(r.modules, m)
	return nil
}

// Modules returns the modules in registration order.
func (r *Registry) Modules() []Module {
	if r == nil {
		return nil
	}
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Lookup returns the module with the given name.
func (r *Registry) Lookup(name string) (Module, bool) {
	if r == nil {
		return Module{}, false
	}
	i, ok := r.byName[name]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.modules)
}

// Loader runs modules with tracing, logging and panic recovery.
type Loader struct {
	logger *zap.Logger
	tracer oteltrace.Tracer
	now    func() time.Time
}

// NewLoader creates a loader. Nil logger and tracer are replaced by no-ops.
func NewLoader(logger *zap.Logger, tracer oteltrace.Tracer) *Loader {
	return &Loader{
		logger: logging.OrNop(logger),
		tracer: trace.OrNoop(tracer),
		now:    time.Now,
	}
}

// Load runs m and returns its result. It never panics.
func (l *Loader) Load(ctx context.Context, m Module, env Env) (res Result) {
	ctx, span := l.tracer.Start(ctx, "diagnostics.load",
		oteltrace.WithAttributes(attribute.String("mintdeck.diagnostic.module", m.Name)))
	start := l.now()
	res.Module = m.Name

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("diagnostic module %s panicked: %v", m.Name, p)
		}
		res.Duration = l.now().Sub(start)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			l.logger.Error("diagnostic module failed to load",
				zap.String("module", m.Name), zap.Error(res.Err))
		} else {
			l.logger.Debug("diagnostic module loaded",
				zap.String("module", m.Name), zap.String("summary", res.Report.Summary))
		}
		span.End()
	}()

	if m.Run == nil {
		res.Err = fmt.Errorf("diagnostic module %s has no run func", m.Name)
		return res
	}
	report, err := m.Run(ctx, env)
	res.Report = report
	res.Err = err
	return res
}

// LoadAll runs every module in order. Failures are reported, not returned.
func (l *Loader) LoadAll(ctx context.Context, r *Registry, env Env) []Result {
	mods := r.Modules()
	out := make([]Result, 0, len(mods))
	for _, m := range mods {
		out = append(out, l.Load(ctx, m, env))
	}
	return out
}
