package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-seedgen/pkg/artifact"
	"github.com/goliatone/go-seedgen/pkg/config"
	"github.com/goliatone/go-seedgen/pkg/dialect"
	"github.com/goliatone/go-seedgen/pkg/dialects/keyvalue"
	"github.com/goliatone/go-seedgen/pkg/dialects/relational"
	"github.com/goliatone/go-seedgen/pkg/generate"
	"github.com/goliatone/go-seedgen/pkg/model"
	"github.com/goliatone/go-seedgen/pkg/record"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRelationalSink overrides the sink relational artifacts are written to.
// Defaults to a directory sink at the configured SQL directory.
func WithRelationalSink(sink artifact.Sink) Option {
	return func(o *Orchestrator) {
		o.relationalSink = sink
	}
}

// WithKeyValueSink overrides the sink key-value artifacts are written to.
// Defaults to a directory sink at the configured Redis directory.
func WithKeyValueSink(sink artifact.Sink) Option {
	return func(o *Orchestrator) {
		o.keyValueSink = sink
	}
}

// WithRegistry injects an encoder registry. The registry must hold encoders
// named relational.Name and keyvalue.Name, or the names set with
// WithEncoders.
func WithRegistry(registry *dialect.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithEncoders selects the registry entries used for each dialect.
func WithEncoders(relationalName, keyValueName string) Option {
	return func(o *Orchestrator) {
		o.relationalName = relationalName
		o.keyValueName = keyValueName
	}
}

// WithRand injects the random source. The configured seed is then reported
// as-is and not used to seed anything.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) {
		o.rng = rng
	}
}

// WithClock overrides the clock used for created_at anchoring and clock
// derived seeds.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithLogger receives phase and progress messages. Nothing is logged by
// default.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTemplates loads header and directive templates from dir, falling back
// to the embedded templates for files it does not provide. Ignored when a
// registry is injected.
func WithTemplates(dir string) Option {
	return func(o *Orchestrator) {
		o.templateDir = dir
	}
}

// Orchestrator coordinates a generation run from configuration to written
// artifacts.
type Orchestrator struct {
	cfg             config.Config
	registry        *dialect.Registry
	relationalName  string
	keyValueName    string
	relationalSink  artifact.Sink
	keyValueSink    artifact.Sink
	rng             *rand.Rand
	clock           func() time.Time
	logger          *log.Logger
	templateDir     string
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator for cfg. Missing dependencies are
// initialised with the built-in encoders and directory sinks.
func New(cfg config.Config, options ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:            cfg.Clone(),
		relationalName: relational.Name,
		keyValueName:   keyvalue.Name,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Stats counts the generated entities.
type Stats = model.Stats

// Result describes a completed run.
type Result struct {
	RunID    uuid.UUID         `json:"run_id" yaml:"run_id"`
	Seed     int64             `json:"seed" yaml:"seed"`
	Now      time.Time         `json:"now" yaml:"now"`
	Stats    Stats             `json:"stats" yaml:"stats"`
	Parts    int               `json:"order_parts" yaml:"order_parts"`
	Manifest artifact.Manifest `json:"manifest" yaml:"manifest"`

	// Pruned lists stale generated files removed from the output
	// directories after the artifacts were written.
	Pruned []string `json:"pruned,omitempty" yaml:"pruned,omitempty"`

	// Dataset is the generated data the artifacts were written from.
	Dataset *model.Dataset `json:"-" yaml:"-"`
}

// WriteYAML encodes the run summary: seed, anchor time, counts, manifest
// and pruned files.
func (r Result) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("orchestrator: encode result: %w", err)
	}
	return enc.Close()
}

// Run executes every phase in order. A configuration error aborts before any
// artifact is created; any later error aborts the run and leaves the
// artifacts already committed in place.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}

	r := &run{o: o, ctx: ctx}
	steps := []struct {
		phase Phase
		fn    func() error
	}{
		{PhaseInit, r.init},
		{PhaseGenerateUsers, r.generateUsers},
		{PhaseGenerateProducts, r.generateProducts},
		{PhaseGenerateOrders, r.generateOrders},
		{PhaseWriteRelational, r.writeRelational},
		{PhaseWriteKeyValue, r.writeKeyValue},
		{PhaseWriteRelationalPostLoad, r.writeRelationalPostLoad},
		{PhasePrune, r.prune},
		{PhaseSummary, r.summary},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return Result{}, &PhaseError{Phase: step.phase, Err: err}
		}
		o.logf("phase %s", step.phase)
		if err := step.fn(); err != nil {
			return Result{}, &PhaseError{Phase: step.phase, Err: err}
		}
	}
	o.logf("phase %s", PhaseDone)
	return r.result, nil
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Printf(format, args...)
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.clock == nil {
		o.clock = time.Now
	}
	if o.relationalSink == nil {
		o.relationalSink = artifact.NewDirSink(relational.Name, o.cfg.Output.SQLDir)
	}
	if o.keyValueSink == nil {
		o.keyValueSink = artifact.NewDirSink(keyvalue.Name, o.cfg.Output.RedisDir)
	}
	if o.registry == nil {
		o.registry = dialect.NewRegistry()
		if err := o.registerDefaultEncoders(); err != nil {
			o.initialiseErr = err
		}
	}

	o.defaultsApplied = true
}

func (o *Orchestrator) registerDefaultEncoders() error {
	rel, err := relational.New(
		relational.WithTemplateDir(o.templateDir),
		relational.WithClearTables(o.cfg.Output.ClearTables),
		relational.WithChunkedKinds(record.Orders, record.OrderItems),
	)
	if err != nil {
		return fmt.Errorf("orchestrator: default relational encoder: %w", err)
	}
	kv, err := keyvalue.New(
		keyvalue.WithTemplateDir(o.templateDir),
		keyvalue.WithClearKeyspace(o.cfg.Output.ClearKeyspace),
	)
	if err != nil {
		return fmt.Errorf("orchestrator: default key-value encoder: %w", err)
	}
	o.registry.MustRegister(rel)
	o.registry.MustRegister(kv)
	return nil
}

// seed resolves the effective seed: the configured one, or one drawn from the
// clock when it is zero.
func (o *Orchestrator) seed(cfg config.Config) (*rand.Rand, int64) {
	if o.rng != nil {
		return o.rng, cfg.Seed
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = o.clock().UnixNano()
	}
	return generate.NewRand(seed)
}
