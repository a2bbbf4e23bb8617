// Package metrics exposes counters for the session protocol on the default
// prometheus registerer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	KeyGenerations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zpay_session_key_generations_total",
		Help: "Key pairs generated because no usable stored record existed.",
	})
	KeyLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zpay_session_key_loads_total",
		Help: "Key pairs adopted from the keystore.",
	})
	KeySelfHeals = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "zpay_session_key_self_heals_total",
		Help: "Stored records discarded as corrupt before regeneration.",
	})
	DecryptFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zpay_session_decrypt_failures_total",
		Help: "Envelope decrypt failures by reason.",
	}, []string{"reason"})
	NormalizedShapes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zpay_response_normalized_total",
		Help: "Normalized responses by recognized source shape.",
	}, []string{"shape"})
)

func init() {
	for _, c := range []prometheus.Collector{
		KeyGenerations, KeyLoads, KeySelfHeals, DecryptFailures, NormalizedShapes,
	} {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
