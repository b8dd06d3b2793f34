package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/Army-Command/internal/game"

// battleMetrics holds the engine's OTel instruments. Without WithMeter they
// record through the global meter provider.
type battleMetrics struct {
	ticks         metric.Int64Counter
	destroyed     metric.Int64Counter
	breakthroughs metric.Int64Counter
	contacts      metric.Int64Counter
}

func newBattleMetrics(m metric.Meter) (*battleMetrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	bm := &battleMetrics{}
	var err error

	bm.ticks, err = m.Int64Counter(
		"battle.ticks",
		metric.WithDescription("Simulation ticks advanced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	bm.destroyed, err = m.Int64Counter(
		"battle.units.destroyed",
		metric.WithDescription("Units destroyed in combat"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	bm.breakthroughs, err = m.Int64Counter(
		"battle.breakthroughs",
		metric.WithDescription("Battalions that reached the far edge"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating breakthroughs counter: %w", err)
	}

	bm.contacts, err = m.Int64Counter(
		"battle.contacts.detected",
		metric.WithDescription("New enemy contacts picked up by recon"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating contacts counter: %w", err)
	}

	return bm, nil
}

func sideAttr(s Side) metric.AddOption {
	return metric.WithAttributes(attribute.String("side", s.String()))
}

func (bm *battleMetrics) tick() {
	bm.ticks.Add(context.Background(), 1)
}

func (bm *battleMetrics) unitDestroyed(s Side) {
	bm.destroyed.Add(context.Background(), 1, sideAttr(s))
}

func (bm *battleMetrics) breakthrough(s Side) {
	bm.breakthroughs.Add(context.Background(), 1, sideAttr(s))
}

func (bm *battleMetrics) contactsDetected(s Side, n int) {
	if n <= 0 {
		return
	}
	bm.contacts.Add(context.Background(), int64(n), sideAttr(s))
}
