package octree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel = "result"
	resultHit   = "hit"
	resultMiss  = "miss"
)

var (
	octreeInsertCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "octree_insert_count_total",
		Help: "The total number of voxel insertions.",
	})

	octreeSubdivisionCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "octree_subdivision_count_total",
		Help: "The total number of nodes split into eight children.",
	})

	octreeArenaSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "octree_arena_size",
		Help: "The number of nodes in the most recently modified arena.",
	})

	octreeRayCastCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree_ray_cast_count_total",
		Help: "The total number of rays cast, by result.",
	}, []string{resultLabel})
)

func instrumentInsert(arenaSize int) {
	octreeInsertCount.Inc()
	octreeArenaSize.Set(float64(arenaSize))
}

func instrumentSubdivision() {
	octreeSubdivisionCount.Inc()
}

func instrumentRayCast(hit bool) {
	result := resultMiss
	if hit {
		result = resultHit
	}
	octreeRayCastCount.
		With(prometheus.Labels{resultLabel: result}).
		Inc()
}
