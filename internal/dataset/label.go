package dataset

// LabelBits is the width of a label: one output unit per bit of an 8-bit
// character code.
const LabelBits = 8

// Label expands c into its bits, most significant first.
func Label(c byte) []float64 {
	out := make([]float64, LabelBits)
	for i := 0; i < LabelBits; i++ {
		if c&(1<<(LabelBits-1-i)) != 0 {
			out[i] = 1
		}
	}
	return out
}

// CodePoint reassembles a label, or a network output, into a character
// code. A unit counts as set when its value is above 0.5.
func CodePoint(bits []float64) byte {
	var c byte
	for _, v := range bits {
		c <<= 1
		if v > 0.5 {
			c |= 1
		}
	}
	return c
}
