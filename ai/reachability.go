package ai

import "snake-game/game/types"

var neighbours = [4]types.Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// IsReachable runs a breadth-first search from start over the 4-connected
// width x height grid and reports whether target can be reached without
// crossing an obstacle. A start that is off the grid or blocked is never
// reachable; start == target is reachable as soon as start is dequeued.
func IsReachable(start, target types.Cell, obstacles types.CellSet, width, height int) bool {
	if start.X < 0 || start.Y < 0 || start.X >= width || start.Y >= height {
		return false
	}
	if obstacles.Contains(start) {
		return false
	}

	visited := make([][]bool, width)
	for x := range visited {
		visited[x] = make([]bool, height)
	}

	queue := []types.Cell{start}
	visited[start.X][start.Y] = true

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		if cell == target {
			return true
		}

		for _, d := range neighbours {
			next := cell.Add(d)
			if next.X < 0 || next.Y < 0 || next.X >= width || next.Y >= height {
				continue
			}
			if visited[next.X][next.Y] || obstacles.Contains(next) {
				continue
			}
			visited[next.X][next.Y] = true
			queue = append(queue, next)
		}
	}

	return false
}
