package dice

import "testing"

func TestVarianceRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Variance()
		if v < 0.8 || v >= 1.2 {
			t.Fatalf("Variance() = %f, expected [0.8, 1.2)", v)
		}
	}
}
