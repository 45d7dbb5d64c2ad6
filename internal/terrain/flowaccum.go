package terrain

// FlowAccumulation computes, for every cell, the number of upstream cells
// (including itself) that drain through it, following fd. Cells are
// processed in topological order via an indegree-counted queue seeded
// from every cell with no inflowing neighbour, so each cell is only
// visited once its full upstream contribution is known - avoiding the
// recursion a naive upstream-walk would need on a deep drainage network.
func FlowAccumulation(fd *FlowDirGrid) []float64 {
	n := fd.Rows * fd.Cols
	indegree := make([]int8, n)
	for r := 0; r < fd.Rows; r++ {
		for c := 0; c < fd.Cols; c++ {
			if nr, nc, ok := Downstream(fd, r, c); ok && nr >= 0 && nc >= 0 && nr < fd.Rows && nc < fd.Cols {
				indegree[nr*fd.Cols+nc]++
			}
		}
	}

	accum := make([]float64, n)
	for i := range accum {
		accum[i] = 1
	}

	var q []int
	for i, deg := range indegree {
		if deg == 0 {
			q = append(q, i)
		}
	}

	for head := 0; head < len(q); head++ {
		idx := q[head]
		r, c := idx/fd.Cols, idx%fd.Cols
		nr, nc, ok := Downstream(fd, r, c)
		if !ok || nr < 0 || nc < 0 || nr >= fd.Rows || nc >= fd.Cols {
			continue
		}
		nidx := nr*fd.Cols + nc
		accum[nidx] += accum[idx]
		indegree[nidx]--
		if indegree[nidx] == 0 {
			q = append(q, nidx)
		}
	}
	return accum
}
