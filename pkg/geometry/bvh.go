package geometry

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

const (
	// LeafSize is the largest primitive count stored in a single leaf
	LeafSize = 2

	// MaxStackDepth bounds the traversal stack. A median split halves the
	// primitive count at each level so 64 entries cover any scene that fits
	// in memory.
	MaxStackDepth = 64
)

var logger = log.New("bvh")

// BVHNode is a node in the flattened hierarchy. For a leaf, the node owns
// Indices[First : First+Count]. For an internal node, the children are
// stored at Nodes[First] and Nodes[First+1].
type BVHNode struct {
	Bounds core.AABB
	First  uint32
	Count  uint32
	Leaf   bool
}

// BVH represents a Bounding Volume Hierarchy stored as a flat node array.
// It is read-only after BuildBVH returns and safe for concurrent queries.
type BVH struct {
	Nodes   []BVHNode
	Indices []int // Permutation of primitive indices; leaves reference contiguous ranges
}

// buildItem caches a primitive's bounds and centroid for the duration of the build
type buildItem struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

type bvhBuilder struct {
	items    []buildItem
	nodes    []BVHNode
	indices  []int
	maxDepth int
}

// BuildBVH constructs a BVH over prims using a median split on the longest
// axis. The primitive slice is not modified. Builds are deterministic: the
// same input order always produces the same nodes and indices.
func BuildBVH(prims []Primitive) *BVH {
	start := time.Now()

	b := &bvhBuilder{
		items:   make([]buildItem, len(prims)),
		nodes:   make([]BVHNode, 1, max(1, 2*len(prims))),
		indices: make([]int, len(prims)),
	}
	for i := range prims {
		bounds := prims[i].BoundingBox()
		b.items[i] = buildItem{index: i, bounds: bounds, centroid: bounds.Center()}
	}

	b.build(0, 0, len(prims), 0)

	logger.Debugf(
		"BVH build time: %d ms, primitives: %d, nodes: %d, maxDepth: %d",
		time.Since(start).Milliseconds(), len(prims), len(b.nodes), b.maxDepth,
	)

	return &BVH{Nodes: b.nodes, Indices: b.indices}
}

// build fills nodes[nodeIdx] for the item range [start, start+count)
func (b *bvhBuilder) build(nodeIdx, start, count, depth int) {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	items := b.items[start : start+count]
	bounds := core.EmptyAABB()
	for i := range items {
		bounds = bounds.Union(items[i].bounds)
	}

	if count <= LeafSize {
		for i := range items {
			b.indices[start+i] = items[i].index
		}
		b.nodes[nodeIdx] = BVHNode{
			Bounds: bounds,
			First:  uint32(start),
			Count:  uint32(count),
			Leaf:   true,
		}
		return
	}

	axis := bounds.LongestAxis()
	slices.SortStableFunc(items, func(x, y buildItem) int {
		return cmp.Compare(x.centroid.Component(axis), y.centroid.Component(axis))
	})

	left := len(b.nodes)
	b.nodes = append(b.nodes, BVHNode{}, BVHNode{})
	b.nodes[nodeIdx] = BVHNode{Bounds: bounds, First: uint32(left)}

	mid := count / 2
	b.build(left, start, mid, depth+1)
	b.build(left+1, start+mid, count-mid, depth+1)
}

// Intersect returns the nearest hit among prims. prims must be the slice the
// BVH was built from. Traversal visits the nearer child first so later boxes
// are tested against a tighter closest distance.
func (bvh *BVH) Intersect(ray core.Ray, prims []Primitive) (HitRecord, bool) {
	var hit HitRecord
	if len(bvh.Nodes) == 0 {
		return hit, false
	}

	var stack [MaxStackDepth]uint32
	sp := 0
	stack[sp] = 0
	sp++

	closest := core.NoHit
	found := false

	for sp > 0 {
		sp--
		node := &bvh.Nodes[stack[sp]]

		if !(node.Bounds.Intersect(ray) < closest) {
			continue
		}

		if node.Leaf {
			end := int(node.First) + int(node.Count)
			if end > len(bvh.Indices) {
				panic(fmt.Sprintf("bvh: leaf range [%d,%d) outside %d indices", node.First, end, len(bvh.Indices)))
			}
			for _, idx := range bvh.Indices[node.First:end] {
				t, normal, mat, ok := prims[idx].Intersect(ray)
				if ok && t < closest {
					closest = t
					hit = HitRecord{T: t, Point: ray.At(t), Normal: normal, Material: mat}
					found = true
				}
			}
			continue
		}

		leftIdx, rightIdx := node.First, node.First+1
		leftDist := bvh.Nodes[leftIdx].Bounds.Intersect(ray)
		rightDist := bvh.Nodes[rightIdx].Bounds.Intersect(ray)

		near, far := leftIdx, rightIdx
		nearDist, farDist := leftDist, rightDist
		if rightDist < leftDist {
			near, far = far, near
			nearDist, farDist = farDist, nearDist
		}

		if farDist < closest {
			if sp >= MaxStackDepth {
				panic(fmt.Sprintf("bvh: traversal stack overflow (depth %d)", MaxStackDepth))
			}
			stack[sp] = far
			sp++
		}
		if nearDist < closest {
			if sp >= MaxStackDepth {
				panic(fmt.Sprintf("bvh: traversal stack overflow (depth %d)", MaxStackDepth))
			}
			stack[sp] = near
			sp++
		}
	}

	return hit, found
}

// BoundingBox returns the bounds of the whole hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	if len(bvh.Nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.Nodes[0].Bounds
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes        int
	Leaves       int
	MaxDepth     int
	AvgLeafDepth float64
	Primitives   int
	MaxLeafSize  int
}

// Stats walks the hierarchy and collects shape statistics
func (bvh *BVH) Stats() BVHStats {
	if len(bvh.Nodes) == 0 {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(0, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.Leaves > 0 {
		stats.AvgLeafDepth = stats.AvgLeafDepth / float64(stats.Leaves)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(nodeIdx uint32, depth int, stats *BVHStats) {
	node := &bvh.Nodes[nodeIdx]
	stats.Nodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Leaf {
		stats.Leaves++
		stats.Primitives += int(node.Count)
		stats.AvgLeafDepth += float64(depth) // Accumulate depth for average calculation
		if int(node.Count) > stats.MaxLeafSize {
			stats.MaxLeafSize = int(node.Count)
		}
		return
	}

	bvh.collectStats(node.First, depth+1, stats)
	bvh.collectStats(node.First+1, depth+1, stats)
}
