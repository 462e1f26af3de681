package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-seedgen/pkg/artifact"
	"github.com/goliatone/go-seedgen/pkg/chunk"
	"github.com/goliatone/go-seedgen/pkg/config"
	"github.com/goliatone/go-seedgen/pkg/dialect"
	"github.com/goliatone/go-seedgen/pkg/generate"
	"github.com/goliatone/go-seedgen/pkg/model"
	"github.com/goliatone/go-seedgen/pkg/record"
)

// loadKinds lists every relational table touched by a load.
var loadKinds = []record.Kind{record.Users, record.Products, record.Stocks, record.Orders, record.OrderItems}

// run carries the state of one Run call between phases.
type run struct {
	o   *Orchestrator
	ctx context.Context

	cfg        config.Config
	rng        *rand.Rand
	now        time.Time
	relational dialect.Encoder
	keyValue   dialect.Encoder

	dataset model.Dataset
	orders  []record.Record
	plan    chunk.Plan
	width   int

	result Result
}

func (r *run) init() error {
	o := r.o
	if err := o.initialiseErr; err != nil {
		return err
	}

	cfg := o.cfg.Normalize()
	if err := config.Validate(cfg); err != nil {
		return err
	}
	r.cfg = cfg

	rel, err := o.registry.Get(o.relationalName)
	if err != nil {
		return fmt.Errorf("relational encoder: %w", err)
	}
	kv, err := o.registry.Get(o.keyValueName)
	if err != nil {
		return fmt.Errorf("key-value encoder: %w", err)
	}
	if rel.Extension() == kv.Extension() {
		return fmt.Errorf("encoders %q and %q share extension %q", rel.Name(), kv.Name(), rel.Extension())
	}
	r.relational, r.keyValue = rel, kv

	var seed int64
	r.rng, seed = o.seed(cfg)
	r.now = cfg.Now
	if r.now.IsZero() {
		r.now = o.clock()
	}
	r.now = r.now.UTC().Truncate(time.Second)

	r.result = Result{RunID: uuid.New(), Seed: seed, Now: r.now}
	o.logf("run %s seed=%d users=%d products=%d orders=%d chunk=%d",
		r.result.RunID, seed, cfg.Users, cfg.Products, cfg.Orders, cfg.ChunkSize)
	return nil
}

func (r *run) generateUsers() error {
	r.dataset.Users = generate.Users(r.cfg.Users, r.cfg.UserOptions())
	return nil
}

func (r *run) generateProducts() error {
	r.dataset.Products = generate.Products(r.rng, r.cfg.Products, r.cfg.ProductOptions())
	return nil
}

func (r *run) generateOrders() error {
	r.dataset.Orders = generate.Orders(r.rng, r.cfg.Orders, r.dataset.Users, r.dataset.Products, r.cfg.OrderOptions(r.now))
	r.orders = record.FromOrders(r.dataset.Orders)
	r.plan = chunk.NewPlan(len(r.orders), r.cfg.ChunkSize)
	r.width = chunk.PartWidth(r.plan.Parts())
	r.result.Stats = r.dataset.Stats()
	r.result.Parts = r.plan.Parts()
	r.result.Dataset = &r.dataset
	return nil
}

func (r *run) writeRelational() error {
	sink := r.o.relationalSink
	enc := r.relational
	ext := enc.Extension()

	if directives, ok := enc.(dialect.Directives); ok {
		if err := r.emit(sink, "00_pre_load"+ext, func(a artifact.Artifact) error {
			return directives.PreLoad(a, loadKinds)
		}); err != nil {
			return err
		}
	}

	if err := r.writeKind(sink, enc, "01_insert_users"+ext, record.Users, record.FromUsers(r.dataset.Users)); err != nil {
		return err
	}
	if err := r.writeKind(sink, enc, "02_insert_products"+ext, record.Products, record.FromProducts(r.dataset.Products)); err != nil {
		return err
	}
	if err := r.writeKind(sink, enc, "03_insert_stocks"+ext, record.Stocks, record.FromStocks(r.dataset.Products)); err != nil {
		return err
	}

	return chunk.Apply(r.plan, r.orders, func(part int, orders []record.Record, _ bool) error {
		suffix := "_part" + chunk.PartName(part, r.width) + ext
		if err := r.writePart(sink, enc, "04_insert_orders"+suffix, record.Orders, part, orders); err != nil {
			return err
		}
		if err := r.writePart(sink, enc, "05_insert_order_items"+suffix, record.OrderItems, part, record.Flatten(orders)); err != nil {
			return err
		}
		r.o.logf("wrote %s orders part %d/%d", enc.Name(), part, r.plan.Parts())
		return nil
	})
}

func (r *run) writeKeyValue() error {
	sink := r.o.keyValueSink
	enc := r.keyValue
	ext := enc.Extension()

	if err := r.writeKind(sink, enc, "01_populate_users"+ext, record.Users, record.FromUsers(r.dataset.Users)); err != nil {
		return err
	}
	if err := r.writeKind(sink, enc, "02_populate_products"+ext, record.Products, record.FromProducts(r.dataset.Products)); err != nil {
		return err
	}
	if err := r.writeKind(sink, enc, "03_populate_stocks"+ext, record.Stocks, record.FromStocks(r.dataset.Products)); err != nil {
		return err
	}

	return chunk.Apply(r.plan, r.orders, func(part int, orders []record.Record, _ bool) error {
		name := "04_populate_orders_part" + chunk.PartName(part, r.width) + ext
		if err := r.writePart(sink, enc, name, record.Orders, part, orders); err != nil {
			return err
		}
		r.o.logf("wrote %s orders part %d/%d", enc.Name(), part, r.plan.Parts())
		return nil
	})
}

func (r *run) writeRelationalPostLoad() error {
	directives, ok := r.relational.(dialect.Directives)
	if !ok {
		return nil
	}
	return r.emit(r.o.relationalSink, "06_post_load"+r.relational.Extension(), func(a artifact.Artifact) error {
		return directives.PostLoad(a, loadKinds)
	})
}

// prune drops generated files a previous, larger run left behind, e.g.
// order parts beyond the current part count. Every name in the manifest is
// kept so sinks sharing a directory do not remove each other's output.
func (r *run) prune() error {
	keep := make([]string, 0, len(r.result.Manifest.Entries))
	for _, entry := range r.result.Manifest.Entries {
		keep = append(keep, entry.Name)
	}

	seen := make(map[artifact.Sink]bool, 2)
	for _, sink := range []artifact.Sink{r.o.relationalSink, r.o.keyValueSink} {
		pruner, ok := sink.(artifact.Pruner)
		if !ok || seen[sink] {
			continue
		}
		seen[sink] = true

		removed, err := pruner.Prune(keep)
		r.result.Pruned = append(r.result.Pruned, removed...)
		if err != nil {
			return fmt.Errorf("%s: %w", sink.Label(), err)
		}
		for _, path := range removed {
			r.o.logf("%s: removed stale %s", sink.Label(), path)
		}
	}
	return nil
}

func (r *run) summary() error {
	m := r.result.Manifest
	r.o.logf("generated %d users, %d products, %d orders, %d order items",
		r.result.Stats.Users, r.result.Stats.Products, r.result.Stats.Orders, r.result.Stats.OrderItems)
	for _, label := range []string{r.o.relationalSink.Label(), r.o.keyValueSink.Label()} {
		entries := m.BySink(label)
		var size int64
		for _, e := range entries {
			size += e.Bytes
		}
		r.o.logf("%s: %d artifacts, %.1f KB", label, len(entries), float64(size)/1024)
	}
	return nil
}

// writeKind writes a whole, unchunked kind as a single first part.
func (r *run) writeKind(sink artifact.Sink, enc dialect.Encoder, name string, kind record.Kind, records []record.Record) error {
	return r.writePart(sink, enc, name, kind, 1, records)
}

func (r *run) writePart(sink artifact.Sink, enc dialect.Encoder, name string, kind record.Kind, part int, records []record.Record) error {
	return r.emit(sink, name, func(a artifact.Artifact) error {
		if err := enc.Header(a, kind, part); err != nil {
			return err
		}
		return enc.Encode(a, kind, records)
	})
}

// emit creates an artifact, fills it with fn and commits it; on failure the
// partial artifact is discarded.
func (r *run) emit(sink artifact.Sink, name string, fn func(artifact.Artifact) error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	a, err := sink.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := fn(a); err != nil {
		_ = a.Discard()
		return fmt.Errorf("write %s: %w", name, err)
	}
	entry, err := a.Commit()
	if err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	r.result.Manifest.Add(entry)
	return nil
}
