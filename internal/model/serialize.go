package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"gonum.org/v1/gonum/mat"
)

func init() {
	var p Perceptron
	serializer.RegisterTypedDeserializer(p.SerializerType(), DeserializePerceptron)
	var v paramVector
	serializer.RegisterTypedDeserializer(v.SerializerType(), deserializeParamVector)
}

// SerializerType returns the unique ID used to serialize a Perceptron
// with the serializer package.
func (p *Perceptron) SerializerType() string {
	return "glyphnet/internal/model.Perceptron"
}

// Serialize serializes the topology followed by the hidden and output
// parameters.
func (p *Perceptron) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		serializer.Int(p.Inputs),
		serializer.Int(p.Hidden),
		serializer.Int(p.Outputs),
		paramVector(p.hiddenW.RawMatrix().Data),
		paramVector(p.hiddenB.RawVector().Data),
		paramVector(p.outW.RawMatrix().Data),
		paramVector(p.outB.RawVector().Data),
	)
}

// DeserializePerceptron attempts to deserialize a Perceptron.
func DeserializePerceptron(d []byte) (*Perceptron, error) {
	var inputs, hidden, outputs serializer.Int
	var hw, hb, ow, ob paramVector
	if err := serializer.DeserializeAny(d, &inputs, &hidden, &outputs, &hw, &hb, &ow, &ob); err != nil {
		return nil, essentials.AddCtx("deserialize Perceptron", err)
	}
	in, hid, out := int(inputs), int(hidden), int(outputs)
	if in <= 0 || hid <= 0 || out <= 0 {
		return nil, fmt.Errorf("deserialize Perceptron: invalid topology %d-%d-%d", in, hid, out)
	}
	if len(hw) != hid*in || len(hb) != hid || len(ow) != out*hid || len(ob) != out {
		return nil, errors.New("deserialize Perceptron: invalid parameter dimensions")
	}
	return &Perceptron{
		Inputs:  in,
		Hidden:  hid,
		Outputs: out,
		hiddenW: mat.NewDense(hid, in, []float64(hw)),
		hiddenB: mat.NewVecDense(hid, []float64(hb)),
		outW:    mat.NewDense(out, hid, []float64(ow)),
		outB:    mat.NewVecDense(out, []float64(ob)),
	}, nil
}

// Save writes the network to path.
func Save(path string, p *Perceptron) error {
	data, err := serializer.SerializeAny(p)
	if err != nil {
		return essentials.AddCtx("save network", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save network: %w", err)
	}
	return nil
}

// Load reads a network written by Save.
func Load(path string) (*Perceptron, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	var p *Perceptron
	if err := serializer.DeserializeAny(data, &p); err != nil {
		return nil, essentials.AddCtx("load network", err)
	}
	return p, nil
}

// paramVector stores float64 parameters as little-endian IEEE 754 words.
type paramVector []float64

func (v paramVector) SerializerType() string {
	return "glyphnet/internal/model.paramVector"
}

func (v paramVector) Serialize() ([]byte, error) {
	out := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(x))
	}
	return out, nil
}

func deserializeParamVector(d []byte) (paramVector, error) {
	if len(d)%8 != 0 {
		return nil, fmt.Errorf("deserialize paramVector: %d bytes is not a multiple of 8", len(d))
	}
	v := make(paramVector, len(d)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(d[8*i:]))
	}
	return v, nil
}
