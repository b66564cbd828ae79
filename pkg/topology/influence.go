package topology

import (
	"fmt"
	"strings"
)

// Influence type codes. A nonzero entry (i, j) means entity i influences entity j.
const (
	NoInfluence = 0
	Chase       = 1

	GoalToBoid       = 1
	ObstacleToBoid   = 2
	BoidToBoid       = 3
	VicsekToBoid     = 4
	GoalToVicsek     = 5
	ObstacleToVicsek = 6
	BoidToVicsek     = 7
	VicsekToVicsek   = 8
)

// InfluenceMatrix is a square row-major matrix of influence codes.
type InfluenceMatrix struct {
	N    int
	Data []int
}

// NewInfluenceMatrix returns an n x n matrix of NoInfluence.
func NewInfluenceMatrix(n int) InfluenceMatrix {
	if n < 0 {
		n = 0
	}
	return InfluenceMatrix{N: n, Data: make([]int, n*n)}
}

// At returns the code of the edge from i to j.
func (m InfluenceMatrix) At(i, j int) int {
	return m.Data[i*m.N+j]
}

// Set stores the code of the edge from i to j.
func (m InfluenceMatrix) Set(i, j, code int) {
	m.Data[i*m.N+j] = code
}

// fillBlock sets every entry with row in [r0, r1) and column in [c0, c1).
func (m InfluenceMatrix) fillBlock(r0, r1, c0, c1, code int) {
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			m.Set(i, j, code)
		}
	}
}

func (m InfluenceMatrix) clearDiagonal() {
	for i := 0; i < m.N; i++ {
		m.Set(i, i, NoInfluence)
	}
}

// Rows copies the matrix into a slice of rows.
func (m InfluenceMatrix) Rows() [][]int {
	rows := make([][]int, m.N)
	for i := range rows {
		rows[i] = append([]int(nil), m.Data[i*m.N:(i+1)*m.N]...)
	}
	return rows
}

// Count returns how many entries hold code.
func (m InfluenceMatrix) Count(code int) int {
	count := 0
	for _, c := range m.Data {
		if c == code {
			count++
		}
	}
	return count
}

func (m InfluenceMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", m.At(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ChaserEdges is the influence matrix of the ring built by NewChasers: each
// particle influences its successor in creation order, (i, (i+1) mod n) = Chase.
// The diagonal is always cleared, which makes a single chaser [[0]].
func ChaserEdges(n int) InfluenceMatrix {
	m := NewInfluenceMatrix(n)
	for i := 0; i < m.N; i++ {
		m.Set(i, (i+1)%m.N, Chase)
	}
	m.clearDiagonal()
	return m
}

// SystemEdges builds the typed influence matrix of a swarm laid out as
// [goal | obstacles | boids | vicseks]. Goals and obstacles are never influenced.
//
//	|      |Goal|Obst|Boid|Vics|
//	|Goal  | 0  | 0  | 1  | 5  |
//	|Obst  | 0  | 0  | 2  | 6  |
//	|Boid  | 0  | 0  | 3  | 7  |
//	|Vics  | 0  | 0  | 4  | 8  |
//
// With no boids the vicseks take the boid block, as if they were boids.
func SystemEdges(obstacles, boids, vicseks int) InfluenceMatrix {
	obstacles, boids, vicseks = max(obstacles, 0), max(boids, 0), max(vicseks, 0)
	if boids == 0 {
		boids, vicseks = vicseks, boids
	}

	m := NewInfluenceMatrix(1 + obstacles + boids + vicseks)

	upToGoal := 1
	upToObs := upToGoal + obstacles
	upToBoids := upToObs + boids
	end := m.N

	m.fillBlock(0, upToGoal, upToObs, upToBoids, GoalToBoid)
	m.fillBlock(upToGoal, upToObs, upToObs, upToBoids, ObstacleToBoid)
	m.fillBlock(upToObs, upToBoids, upToObs, upToBoids, BoidToBoid)
	m.fillBlock(upToBoids, end, upToObs, upToBoids, VicsekToBoid)

	m.fillBlock(0, upToGoal, upToBoids, end, GoalToVicsek)
	m.fillBlock(upToGoal, upToObs, upToBoids, end, ObstacleToVicsek)
	m.fillBlock(upToObs, upToBoids, upToBoids, end, BoidToVicsek)
	m.fillBlock(upToBoids, end, upToBoids, end, VicsekToVicsek)

	m.clearDiagonal()
	return m
}

// Replicate tiles m instances times into a flat (instances, N, N) array.
func Replicate(m InfluenceMatrix, instances int) []int {
	if instances <= 0 {
		return []int{}
	}
	out := make([]int, 0, instances*len(m.Data))
	for i := 0; i < instances; i++ {
		out = append(out, m.Data...)
	}
	return out
}
