// Package model implements the glyph classifier: a feed-forward network
// with one sigmoid hidden layer, trained online by backpropagation.
package model

// Model is what the trainer and evaluator need from a network.
type Model interface {
	// Activate runs a forward pass without changing any parameter.
	Activate(input []float64) []float64

	// Step runs a forward pass, adjusts the parameters towards target and
	// returns the squared error of the prediction made before the update.
	Step(input, target []float64, rate float64) float64
}
