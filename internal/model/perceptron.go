package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// initSpread bounds the uniform initialisation of weights and biases.
const initSpread = 0.1

// Perceptron is a fully connected network with one hidden layer. Both
// the hidden and the output units use the logistic sigmoid.
type Perceptron struct {
	Inputs  int
	Hidden  int
	Outputs int

	hiddenW *mat.Dense // Hidden x Inputs
	hiddenB *mat.VecDense
	outW    *mat.Dense // Outputs x Hidden
	outB    *mat.VecDense
}

// NewPerceptron returns a network with weights and biases drawn
// uniformly from [-0.1, 0.1).
func NewPerceptron(inputs, hidden, outputs int, seed int64) *Perceptron {
	if inputs <= 0 || hidden <= 0 || outputs <= 0 {
		panic(fmt.Sprintf("model: invalid topology %d-%d-%d", inputs, hidden, outputs))
	}
	rng := rand.New(rand.NewSource(seed))
	uniform := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = (rng.Float64()*2 - 1) * initSpread
		}
		return out
	}
	return &Perceptron{
		Inputs:  inputs,
		Hidden:  hidden,
		Outputs: outputs,
		hiddenW: mat.NewDense(hidden, inputs, uniform(hidden*inputs)),
		hiddenB: mat.NewVecDense(hidden, uniform(hidden)),
		outW:    mat.NewDense(outputs, hidden, uniform(outputs*hidden)),
		outB:    mat.NewVecDense(outputs, uniform(outputs)),
	}
}

// Activate implements Model.
func (p *Perceptron) Activate(input []float64) []float64 {
	_, _, out := p.forward(input)
	return append([]float64(nil), out.RawVector().Data...)
}

// Step implements Model.
func (p *Perceptron) Step(input, target []float64, rate float64) float64 {
	if len(target) != p.Outputs {
		panic(fmt.Sprintf("model: target has %d values, want %d", len(target), p.Outputs))
	}
	in, hid, out := p.forward(input)

	var sqErr float64
	dOut := mat.NewVecDense(p.Outputs, nil)
	for k := 0; k < p.Outputs; k++ {
		y := out.AtVec(k)
		e := target[k] - y
		sqErr += e * e
		dOut.SetVec(k, e*y*(1-y))
	}

	dHid := mat.NewVecDense(p.Hidden, nil)
	dHid.MulVec(p.outW.T(), dOut)
	for j := 0; j < p.Hidden; j++ {
		h := hid.AtVec(j)
		dHid.SetVec(j, dHid.AtVec(j)*h*(1-h))
	}

	p.outW.RankOne(p.outW, rate, dOut, hid)
	p.outB.AddScaledVec(p.outB, rate, dOut)
	p.hiddenW.RankOne(p.hiddenW, rate, dHid, in)
	p.hiddenB.AddScaledVec(p.hiddenB, rate, dHid)
	return sqErr
}

func (p *Perceptron) forward(input []float64) (in, hid, out *mat.VecDense) {
	if len(input) != p.Inputs {
		panic(fmt.Sprintf("model: input has %d values, want %d", len(input), p.Inputs))
	}
	in = mat.NewVecDense(p.Inputs, append([]float64(nil), input...))

	hid = mat.NewVecDense(p.Hidden, nil)
	hid.MulVec(p.hiddenW, in)
	hid.AddVec(hid, p.hiddenB)
	sigmoidInPlace(hid)

	out = mat.NewVecDense(p.Outputs, nil)
	out.MulVec(p.outW, hid)
	out.AddVec(out, p.outB)
	sigmoidInPlace(out)
	return in, hid, out
}

func sigmoidInPlace(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, sigmoid(v.AtVec(i)))
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
