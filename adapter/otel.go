/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package adapter connects cell observers to metrics systems.
package adapter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/srediag/exclusive/api"
)

// OTelObserver counts cell operations with OpenTelemetry Int64Counters.
// Every measurement carries a "strategy" attribute; conditional stores also
// carry "outcome" (success or failure).
type OTelObserver struct {
	linked      metric.Int64Counter
	conditional metric.Int64Counter
	direct      metric.Int64Counter

	byStrategy []otelOptions
}

type otelOptions struct {
	strategy, success, failure metric.AddOption
}

var _ api.Observer = (*OTelObserver)(nil)

// NewOTelObserver creates the observer's counters on meter.
func NewOTelObserver(meter metric.Meter) (*OTelObserver, error) {
	linked, err := meter.Int64Counter("exclusive.cell.linked_loads",
		metric.WithDescription("Linked loads taken on exclusive cells."),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, err
	}
	conditional, err := meter.Int64Counter("exclusive.cell.conditional_stores",
		metric.WithDescription("Conditional stores attempted on exclusive cells."),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, err
	}
	direct, err := meter.Int64Counter("exclusive.cell.direct_writes",
		metric.WithDescription("Unconditional stores and exchanges on exclusive cells."),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, err
	}
	o := &OTelObserver{linked: linked, conditional: conditional, direct: direct}
	for _, s := range api.Strategies {
		name := attribute.String("strategy", s.String())
		o.byStrategy = append(o.byStrategy, otelOptions{
			strategy: metric.WithAttributeSet(attribute.NewSet(name)),
			success:  metric.WithAttributeSet(attribute.NewSet(name, attribute.String("outcome", "success"))),
			failure:  metric.WithAttributeSet(attribute.NewSet(name, attribute.String("outcome", "failure"))),
		})
	}
	return o, nil
}

func (o *OTelObserver) LinkedLoad(s api.Strategy) {
	o.linked.Add(context.Background(), 1, o.byStrategy[s].strategy)
}

func (o *OTelObserver) ConditionalStore(s api.Strategy, ok bool) {
	opt := o.byStrategy[s].failure
	if ok {
		opt = o.byStrategy[s].success
	}
	o.conditional.Add(context.Background(), 1, opt)
}

func (o *OTelObserver) DirectWrite(s api.Strategy) {
	o.direct.Add(context.Background(), 1, o.byStrategy[s].strategy)
}
