package shipment

import (
	"fmt"
	"math"
	"strings"

	"ddd-course/domain/shared"

	"github.com/bytedance/sonic"
)

// Weight parcel or capacity weight.
// Stored in whole grams so sums compare exactly against the capacity.
type Weight struct {
	grams int64
}

// NewWeight creates a Weight from kilograms, must be > 0
func NewWeight(kg float64) (Weight, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Weight{}, shared.NewValidationError("weight", "kg", "weight must be a finite number")
	}
	if kg*1000 >= math.MaxInt64 {
		return Weight{}, shared.NewValidationError("weight", "kg", "weight out of range")
	}
	grams := int64(math.Round(kg * 1000))
	if grams <= 0 {
		return Weight{}, shared.NewValidationError("weight", "kg", "weight must be positive")
	}
	return Weight{grams: grams}, nil
}

// WeightFromGrams creates a Weight from whole grams, must be > 0
func WeightFromGrams(grams int64) (Weight, error) {
	if grams <= 0 {
		return Weight{}, shared.NewValidationError("weight", "grams", "weight must be positive")
	}
	return Weight{grams: grams}, nil
}

// Kilograms weight in kg
func (w Weight) Kilograms() float64 { return float64(w.grams) / 1000 }

// Grams weight in grams
func (w Weight) Grams() int64 { return w.grams }

// Add sums two weights, failing instead of wrapping around
func (w Weight) Add(other Weight) (Weight, error) {
	if other.grams > 0 && w.grams > math.MaxInt64-other.grams {
		return Weight{}, shared.NewValidationError("weight", "grams", "weight overflow")
	}
	return Weight{grams: w.grams + other.grams}, nil
}

// Exceeds reports w > limit
func (w Weight) Exceeds(limit Weight) bool { return w.grams > limit.grams }

// Equals compares by value
func (w Weight) Equals(other any) bool {
	o, ok := other.(Weight)
	return ok && w == o
}

func (w Weight) String() string { return fmt.Sprintf("%g kg", w.Kilograms()) }

// MarshalJSON renders kilograms
func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%g", w.Kilograms())), nil
}

// Volume parcel or capacity volume.
// Stored in whole cubic centimetres.
type Volume struct {
	cm3 int64
}

// NewVolume creates a Volume from cubic metres, must be > 0
func NewVolume(m3 float64) (Volume, error) {
	if math.IsNaN(m3) || math.IsInf(m3, 0) {
		return Volume{}, shared.NewValidationError("volume", "m3", "volume must be a finite number")
	}
	if m3*1_000_000 >= math.MaxInt64 {
		return Volume{}, shared.NewValidationError("volume", "m3", "volume out of range")
	}
	cm3 := int64(math.Round(m3 * 1_000_000))
	if cm3 <= 0 {
		return Volume{}, shared.NewValidationError("volume", "m3", "volume must be positive")
	}
	return Volume{cm3: cm3}, nil
}

// VolumeFromCubicCentimetres creates a Volume from whole cm³, must be > 0
func VolumeFromCubicCentimetres(cm3 int64) (Volume, error) {
	if cm3 <= 0 {
		return Volume{}, shared.NewValidationError("volume", "cm3", "volume must be positive")
	}
	return Volume{cm3: cm3}, nil
}

// CubicMetres volume in m³
func (v Volume) CubicMetres() float64 { return float64(v.cm3) / 1_000_000 }

// CubicCentimetres volume in cm³
func (v Volume) CubicCentimetres() int64 { return v.cm3 }

// Add sums two volumes, failing instead of wrapping around
func (v Volume) Add(other Volume) (Volume, error) {
	if other.cm3 > 0 && v.cm3 > math.MaxInt64-other.cm3 {
		return Volume{}, shared.NewValidationError("volume", "cm3", "volume overflow")
	}
	return Volume{cm3: v.cm3 + other.cm3}, nil
}

// Exceeds reports v > limit
func (v Volume) Exceeds(limit Volume) bool { return v.cm3 > limit.cm3 }

// Equals compares by value
func (v Volume) Equals(other any) bool {
	o, ok := other.(Volume)
	return ok && v == o
}

func (v Volume) String() string { return fmt.Sprintf("%g m3", v.CubicMetres()) }

// MarshalJSON renders cubic metres
func (v Volume) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%g", v.CubicMetres())), nil
}

// Address destination address, all parts required
type Address struct {
	city    string
	street  string
	zipCode string
}

// NewAddress creates a validated Address
func NewAddress(city, street, zipCode string) (Address, error) {
	city = strings.TrimSpace(city)
	street = strings.TrimSpace(street)
	zipCode = strings.TrimSpace(zipCode)

	if city == "" {
		return Address{}, shared.NewValidationError("address", "city", "city is required")
	}
	if street == "" {
		return Address{}, shared.NewValidationError("address", "street", "street is required")
	}
	if zipCode == "" {
		return Address{}, shared.NewValidationError("address", "zip_code", "zip code is required")
	}
	return Address{city: city, street: street, zipCode: zipCode}, nil
}

func (a Address) City() string    { return a.city }
func (a Address) Street() string  { return a.street }
func (a Address) ZipCode() string { return a.zipCode }

// Equals compares by value
func (a Address) Equals(other any) bool {
	o, ok := other.(Address)
	return ok && a == o
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s", a.zipCode, a.city, a.street)
}

// MarshalJSON renders the address parts
func (a Address) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		City    string `json:"city"`
		Street  string `json:"street"`
		ZipCode string `json:"zip_code"`
	}{a.city, a.street, a.zipCode})
}

var (
	_ shared.ValueObject = Weight{}
	_ shared.ValueObject = Volume{}
	_ shared.ValueObject = Address{}
)
