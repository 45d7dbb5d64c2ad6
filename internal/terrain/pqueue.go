// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package terrain conditions a raw DEM tile into the depressionless,
// flow-routed surface the reservoir modeller needs: depression filling,
// D8 flow direction, flow accumulation and stream/pour-point extraction.
package terrain

// cell addresses one grid element by its row/col pair, so a caller need
// not recompute them from a flat index on every queue pop.
type cell struct {
	row, col int
}

type pqItem struct {
	value    cell
	priority float64
}

// pqueue is a binary min-heap over pqItem.priority, ordered so the lowest
// elevation always pops first. Adapted from the gridCell/PQueue pattern
// used for breach-flooding: same swim/sink layout, generalized from an
// int64 priority to the float64 elevations this package works with
// directly instead of through a fixed-point multiplier.
type pqueue struct {
	items []*pqItem
}

func newPQueue() *pqueue {
	return &pqueue{items: []*pqItem{nil}}
}

func (pq *pqueue) push(value cell, priority float64) {
	pq.items = append(pq.items, &pqItem{value: value, priority: priority})
	pq.swim(len(pq.items) - 1)
}

func (pq *pqueue) pop() cell {
	top := pq.items[1]
	last := len(pq.items) - 1
	pq.items[1] = pq.items[last]
	pq.items = pq.items[:last]
	if len(pq.items) > 1 {
		pq.sink(1)
	}
	return top.value
}

func (pq *pqueue) len() int { return len(pq.items) - 1 }

func (pq *pqueue) swim(k int) {
	for k > 1 && pq.items[k/2].priority > pq.items[k].priority {
		pq.items[k/2], pq.items[k] = pq.items[k], pq.items[k/2]
		k = k / 2
	}
}

func (pq *pqueue) sink(k int) {
	n := len(pq.items) - 1
	for 2*k <= n {
		j := 2 * k
		if j < n && pq.items[j].priority > pq.items[j+1].priority {
			j++
		}
		if !(pq.items[k].priority > pq.items[j].priority) {
			break
		}
		pq.items[k], pq.items[j] = pq.items[j], pq.items[k]
		k = j
	}
}

// plainQueue is a FIFO of cells, used to drain cells whose elevation is
// already known to be resolved without paying the heap's log-n cost.
type plainQueue struct {
	items []cell
	head  int
}

func (q *plainQueue) push(c cell) { q.items = append(q.items, c) }

func (q *plainQueue) pop() cell {
	c := q.items[q.head]
	q.head++
	return c
}

func (q *plainQueue) empty() bool { return q.head >= len(q.items) }
