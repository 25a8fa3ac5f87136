package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionStatus(t *testing.T) {
	g := NewChartGenerator()

	png, err := g.SubmissionStatus(2, 5, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestSubmissionStatusNoData(t *testing.T) {
	g := NewChartGenerator()

	png, err := g.SubmissionStatus(0, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, png)
}
