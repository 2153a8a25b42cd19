package shipment

import (
	"math"
	"testing"

	"ddd-course/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeight(t *testing.T) {
	for _, kg := range []float64{0, -1, 0.0001, math.NaN(), math.Inf(1)} {
		_, err := NewWeight(kg)
		assert.ErrorIs(t, err, shared.ErrInvalidValue, "kg=%v", kg)
	}

	w, err := NewWeight(2.5)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), w.Grams())

	same, _ := NewWeight(2.5)
	assert.True(t, w.Equals(same))
	assert.False(t, w.Equals(2.5))
}

func TestNewVolume(t *testing.T) {
	_, err := NewVolume(0)
	assert.ErrorIs(t, err, shared.ErrInvalidValue)

	v, err := NewVolume(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.CubicMetres())
	assert.Equal(t, "1.5 m3", v.String())
}

func TestWeightAndVolumeAddOverflow(t *testing.T) {
	big, err := WeightFromGrams(math.MaxInt64 - 1)
	require.NoError(t, err)
	two, err := WeightFromGrams(2)
	require.NoError(t, err)
	_, err = big.Add(two)
	assert.ErrorIs(t, err, shared.ErrInvalidValue)

	one, _ := WeightFromGrams(1)
	sum, err := big.Add(one)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), sum.Grams())

	bigVolume, err := VolumeFromCubicCentimetres(math.MaxInt64)
	require.NoError(t, err)
	oneCm3, _ := VolumeFromCubicCentimetres(1)
	_, err = bigVolume.Add(oneCm3)
	assert.ErrorIs(t, err, shared.ErrInvalidValue)

	_, err = NewWeight(1e17)
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
	_, err = NewVolume(1e13)
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
}

func TestNewAddress(t *testing.T) {
	_, err := NewAddress("", "street", "zip")
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
	_, err = NewAddress("city", " ", "zip")
	assert.ErrorIs(t, err, shared.ErrInvalidValue)
	_, err = NewAddress("city", "street", "")
	assert.ErrorIs(t, err, shared.ErrInvalidValue)

	a, err := NewAddress(" Kazan ", "Baumana 5", "420111")
	require.NoError(t, err)
	assert.Equal(t, "Kazan", a.City())

	b, _ := NewAddress("Kazan", "Baumana 5", "420111")
	assert.True(t, a.Equals(b))

	data, err := a.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Kazan","street":"Baumana 5","zip_code":"420111"}`, string(data))
}
