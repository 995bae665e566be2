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

package adapter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/exclusive/api"
)

// PrometheusObserver counts cell operations. It is a prometheus.Collector;
// register it once and share it between cells.
type PrometheusObserver struct {
	linked      *prometheus.CounterVec
	conditional *prometheus.CounterVec
	direct      *prometheus.CounterVec

	byStrategy []promCounters
}

type promCounters struct {
	linked, success, failure, direct prometheus.Counter
}

var (
	_ api.Observer         = (*PrometheusObserver)(nil)
	_ prometheus.Collector = (*PrometheusObserver)(nil)
)

// NewPrometheusObserver builds the observer's counters under namespace.
func NewPrometheusObserver(namespace string) *PrometheusObserver {
	p := &PrometheusObserver{
		linked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cell",
			Name:      "linked_loads_total",
			Help:      "Linked loads taken on exclusive cells.",
		}, []string{"strategy"}),
		conditional: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cell",
			Name:      "conditional_stores_total",
			Help:      "Conditional stores attempted on exclusive cells.",
		}, []string{"strategy", "outcome"}),
		direct: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cell",
			Name:      "direct_writes_total",
			Help:      "Unconditional stores and exchanges on exclusive cells.",
		}, []string{"strategy"}),
	}
	// Label lookups are resolved once so the hot path is a plain Inc.
	for _, s := range api.Strategies {
		p.byStrategy = append(p.byStrategy, promCounters{
			linked:  p.linked.WithLabelValues(s.String()),
			success: p.conditional.WithLabelValues(s.String(), "success"),
			failure: p.conditional.WithLabelValues(s.String(), "failure"),
			direct:  p.direct.WithLabelValues(s.String()),
		})
	}
	return p
}

func (p *PrometheusObserver) LinkedLoad(s api.Strategy) {
	p.byStrategy[s].linked.Inc()
}

func (p *PrometheusObserver) ConditionalStore(s api.Strategy, ok bool) {
	if ok {
		p.byStrategy[s].success.Inc()
		return
	}
	p.byStrategy[s].failure.Inc()
}

func (p *PrometheusObserver) DirectWrite(s api.Strategy) {
	p.byStrategy[s].direct.Inc()
}

func (p *PrometheusObserver) Describe(ch chan<- *prometheus.Desc) {
	p.linked.Describe(ch)
	p.conditional.Describe(ch)
	p.direct.Describe(ch)
}

func (p *PrometheusObserver) Collect(ch chan<- prometheus.Metric) {
	p.linked.Collect(ch)
	p.conditional.Collect(ch)
	p.direct.Collect(ch)
}
