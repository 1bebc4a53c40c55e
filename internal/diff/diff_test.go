package diff

import (
	"testing"
	"time"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func obs(host string, open ...int) *models.Observation {
	return models.NewObservation(host, time.Now(), models.DefaultPorts, open)
}

func TestComputeDiff_ClosedPort(t *testing.T) {
	before := obs("demo-host", 22, 443, 3389)
	after := obs("demo-host", 22, 443)

	result := ComputeDiff(before, after)

	assert.Equal(t, []int{}, result.Opened)
	assert.Equal(t, []int{3389}, result.Closed)
	assert.Equal(t, []string{"CLOSED port 3389"}, result.Changes)
	assert.False(t, result.Empty())
}

func TestComputeDiff_OpenedBeforeClosed(t *testing.T) {
	before := obs("demo-host", 21, 80, 3306)
	after := obs("demo-host", 8080, 80, 23, 22)

	result := ComputeDiff(before, after)

	assert.Equal(t, []int{22, 23, 8080}, result.Opened)
	assert.Equal(t, []int{21, 3306}, result.Closed)
	assert.Equal(t, []string{
		"OPENED port 22",
		"OPENED port 23",
		"OPENED port 8080",
		"CLOSED port 21",
		"CLOSED port 3306",
	}, result.Changes)
}

func TestComputeDiff_Identical(t *testing.T) {
	for _, x := range []*models.Observation{obs("a"), obs("a", 22), obs("a", 22, 80, 443)} {
		result := ComputeDiff(x, x)
		assert.Equal(t, &models.DiffResult{Opened: []int{}, Closed: []int{}, Changes: []string{}}, result)
		assert.True(t, result.Empty())
	}
}

func TestComputeDiff_Disjoint(t *testing.T) {
	pairs := [][2][]int{
		{{1, 2, 3}, {3, 4, 5}},
		{{}, {80}},
		{{80}, {}},
		{{22, 443}, {22, 443}},
	}
	for _, p := range pairs {
		result := ComputeDiff(obs("h", p[0]...), obs("h", p[1]...))
		closed := models.PortSet(result.Closed)
		for _, o := range result.Opened {
			assert.False(t, closed[o], "port %d both opened and closed", o)
		}
	}
}

func TestSameHost(t *testing.T) {
	assert.True(t, SameHost(obs("a"), obs("a")))
	assert.False(t, SameHost(obs("a"), obs("b")))
}
