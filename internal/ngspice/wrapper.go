//go:build ngspice

// Package ngspice wraps libngspice via cgo, letting the CLI load a netlist
// file, run it through a live simulation and inspect the resulting
// vectors. It does not read from the model store.
package ngspice

// #cgo linux LDFLAGS: -lngspice
// #cgo darwin LDFLAGS: -lngspice
// #include <stdlib.h>
// #include "ngspice_shim.h"
import "C"
import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// Circuit wraps a loaded ngspice simulation handle.
type Circuit struct {
	handle *C.NgspiceHandle
}

// LoadCircuit initializes ngspice and loads the netlist at path.
func LoadCircuit(path string) (*Circuit, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	handle := C.ngspice_load(cPath)
	if handle == nil {
		return nil, fmt.Errorf("ngspice: failed to load circuit %q", path)
	}

	c := &Circuit{handle: handle}
	runtime.SetFinalizer(c, (*Circuit).Close)
	return c, nil
}

// Run executes the loaded circuit's control statements (e.g. .tran, .dc).
func (c *Circuit) Run() error {
	if c.handle == nil {
		return errors.New("ngspice: circuit is closed")
	}
	if !C.ngspice_run(c.handle) {
		return errors.New("ngspice: simulation run failed")
	}
	return nil
}

// VectorNames lists every vector ngspice produced for the last run.
func (c *Circuit) VectorNames() ([]string, error) {
	if c.handle == nil {
		return nil, errors.New("ngspice: circuit is closed")
	}

	var namesPtr **C.char
	var count C.size_t
	if !C.ngspice_vector_names(c.handle, &namesPtr, &count) {
		return nil, errors.New("ngspice: failed to list vectors")
	}
	defer C.ngspice_free_names(namesPtr, count)

	cNames := unsafe.Slice(namesPtr, count)
	names := make([]string, count)
	for i, n := range cNames {
		names[i] = C.GoString(n)
	}
	return names, nil
}

// Vector returns the real-valued samples of a named vector from the last
// run.
func (c *Circuit) Vector(name string) ([]float64, error) {
	if c.handle == nil {
		return nil, errors.New("ngspice: circuit is closed")
	}

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var dataPtr *C.double
	var length C.size_t
	if !C.ngspice_vector_data(c.handle, cName, &dataPtr, &length) {
		return nil, fmt.Errorf("ngspice: vector %q not found", name)
	}
	defer C.ngspice_free_vector(dataPtr, length)

	cData := unsafe.Slice(dataPtr, length)
	values := make([]float64, length)
	for i, v := range cData {
		values[i] = float64(v)
	}
	return values, nil
}

// Interpolate linearly interpolates vector's value at x against the
// circuit's independent sweep variable (time, frequency, or voltage
// depending on analysis type).
func (c *Circuit) Interpolate(vector string, x float64) (float64, error) {
	samples, err := c.Vector(vector)
	if err != nil {
		return 0, err
	}
	sweep, err := c.Vector(sweepVectorName(c))
	if err != nil {
		return 0, err
	}
	return interpolateLinear(sweep, samples, x)
}

// FindExtrema returns the minimum and maximum sample of vector over the
// last run.
func (c *Circuit) FindExtrema(vector string) (min, max float64, err error) {
	samples, err := c.Vector(vector)
	if err != nil {
		return 0, 0, err
	}
	if len(samples) == 0 {
		return 0, 0, fmt.Errorf("ngspice: vector %q has no samples", vector)
	}
	min, max = samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, nil
}

// Close releases the underlying ngspice handle.
func (c *Circuit) Close() error {
	if c.handle != nil {
		C.ngspice_free(c.handle)
		c.handle = nil
		runtime.SetFinalizer(c, nil)
	}
	return nil
}

func sweepVectorName(c *Circuit) string {
	names, err := c.VectorNames()
	if err != nil || len(names) == 0 {
		return "time"
	}
	return names[0]
}

func interpolateLinear(xs, ys []float64, x float64) (float64, error) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, errors.New("ngspice: insufficient samples to interpolate")
	}
	for i := 0; i < len(xs)-1; i++ {
		if (x >= xs[i] && x <= xs[i+1]) || (x <= xs[i] && x >= xs[i+1]) {
			span := xs[i+1] - xs[i]
			if span == 0 {
				return ys[i], nil
			}
			t := (x - xs[i]) / span
			return ys[i] + t*(ys[i+1]-ys[i]), nil
		}
	}
	return 0, fmt.Errorf("ngspice: x=%v outside sweep range", x)
}
