package nn

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownActivation is returned when an activation function name is not registered.
var ErrUnknownActivation = errors.New("nn: unknown activation function")

// Activation is the strategy a Calculator applies to every weighted sum it computes.
// Implementations must be total functions of their argument.
type Activation interface {
	Activate(x float64) float64
}

// ActivationFunc adapts a plain function to the Activation interface.
type ActivationFunc func(x float64) float64

// Activate calls f(x).
func (f ActivationFunc) Activate(x float64) float64 {
	return f(x)
}

// ActivationFunctions maps function names to the built-in activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationFunc{
	"identity":    Identity,
	"binary_step": BinaryStep,
	"sigmoid":     Sigmoid,
	"relu":        ReLU,
	"softplus":    Softplus,
	"tanh":        Tanh,
	"gaussian":    Gaussian,
	"clamped":     Clamped,
	"absolute":    Absolute,
	"abs":         Absolute, // Alias for absolute
	"sine":        Sine,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownActivation, name)
}

// --- Standard Activation Function Implementations ---

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// BinaryStep returns 1 for x >= 0 and 0 otherwise.
func BinaryStep(x float64) float64 {
	if x >= 0 {
		return 1.0
	}
	return 0.0
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Softplus is ln(1 + e^x), a smooth approximation of ReLU.
func Softplus(x float64) float64 {
	return math.Log1p(math.Exp(x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}
