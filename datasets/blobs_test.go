package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestMakeBlobsShapeAndLabels(t *testing.T) {
	centers := [][]float64{{0, 0}, {10, 10}, {-10, 10}}
	X, y, err := MakeBlobs(300, centers, 0.5, 1)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 300, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 300, y.Len())

	for i := 0; i < r; i++ {
		assert.Equal(t, float64(i%3), y.AtVec(i))
	}

	// Each cluster mean lands near its center.
	for k, center := range centers {
		for j := range center {
			var col []float64
			for i := k; i < r; i += 3 {
				col = append(col, X.At(i, j))
			}
			assert.InDelta(t, center[j], stat.Mean(col, nil), 0.3)
		}
	}
}

func TestMakeBlobsReproducible(t *testing.T) {
	centers := [][]float64{{0, 0}, {3, 3}}
	X1, _, err := MakeBlobs(20, centers, 1, 7)
	require.NoError(t, err)
	X2, _, err := MakeBlobs(20, centers, 1, 7)
	require.NoError(t, err)
	X3, _, err := MakeBlobs(20, centers, 1, 8)
	require.NoError(t, err)

	assert.True(t, mat.Equal(X1, X2))
	assert.False(t, mat.Equal(X1, X3))
}

func TestMakeBlobsInvalidInput(t *testing.T) {
	_, _, err := MakeBlobs(0, [][]float64{{0}}, 1, 0)
	assert.Error(t, err)

	_, _, err = MakeBlobs(10, nil, 1, 0)
	assert.Error(t, err)

	_, _, err = MakeBlobs(10, [][]float64{{0}}, 0, 0)
	assert.Error(t, err)

	_, _, err = MakeBlobs(10, [][]float64{{0, 0}, {1}}, 1, 0)
	assert.Error(t, err)
}
