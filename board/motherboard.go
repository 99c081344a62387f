// Package board wires a cpu.CPU to a bus.AddressMap and a set of bus.Device
// peripherals, implementing bus.Transactor so the CPU can issue word reads
// and writes without knowing anything about devices or mapping. This is the
// seam that keeps cpu free of a dependency on board (see cpu package docs).
package board

import (
	"go.uber.org/zap"

	"github.com/ktstephano-labs/vm32/bus"
	"github.com/ktstephano-labs/vm32/cpu"
	"github.com/ktstephano-labs/vm32/fault"
)

// Motherboard owns the devices, the address map routing guest addresses to
// them, and the CPU that drives transactions against both.
type Motherboard struct {
	devices []bus.Device
	addrMap *bus.AddressMap
	cpu     *cpu.CPU
	log     *zap.Logger
}

// Option configures a Motherboard at construction time.
type Option func(*Motherboard)

// WithLogger stores a structured logger on the Motherboard. No Motherboard
// method logs through it; CPU fault logging is set with cpu.WithLogger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Motherboard) { m.log = l }
}

// New returns an empty Motherboard. Devices must be added with AddDevice and
// placed with MapContiguous before Wire is called to construct the CPU.
func New(opts ...Option) *Motherboard {
	m := &Motherboard{addrMap: bus.NewAddressMap(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddDevice registers dev and returns the index to use with MapContiguous.
func (m *Motherboard) AddDevice(dev bus.Device) int {
	m.devices = append(m.devices, dev)
	return len(m.devices) - 1
}

// MapContiguous places the devices identified by deviceIndexes back-to-back
// in the guest address space starting at base.
func (m *Motherboard) MapContiguous(base uint32, deviceIndexes ...int) error {
	devs := make([]bus.Device, len(deviceIndexes))
	for i, idx := range deviceIndexes {
		devs[i] = m.devices[idx]
	}
	return m.addrMap.MapContiguous(base, deviceIndexes, devs)
}

// Wire constructs the CPU bound to this motherboard's Transactor
// implementation. Call once, after every device is mapped.
func (m *Motherboard) Wire(opts ...cpu.Option) *cpu.CPU {
	m.cpu = cpu.New(m, opts...)
	return m.cpu
}

// CPU returns the motherboard's CPU, or nil if Wire has not been called.
func (m *Motherboard) CPU() *cpu.CPU { return m.cpu }

// Devices returns the registered devices in registration order.
func (m *Motherboard) Devices() []bus.Device {
	out := make([]bus.Device, len(m.devices))
	copy(out, m.devices)
	return out
}

// Reset clears every device's volatile state, then the CPU's. Device order
// matches spec.md §5's reset discipline: peripherals first, CPU last, so a
// device that seeds memory on reset is visible to the CPU's very first
// fetch.
func (m *Motherboard) Reset() {
	for _, d := range m.devices {
		d.Reset()
	}
	if m.cpu != nil {
		m.cpu.Reset()
	}
}

// ReadWord implements bus.Transactor, following spec.md §4.1's three-step
// read algorithm: alignment, then address-map lookup, then device dispatch.
func (m *Motherboard) ReadWord(addr uint32) (uint32, *fault.Fault) {
	if f := bus.CheckAlignment(addr); f != nil {
		return 0, f
	}
	idx, offset, ok := m.addrMap.Lookup(addr)
	if !ok {
		return 0, &fault.Fault{Code: fault.UnmappedAddress, PGA: addr}
	}
	dev := m.devices[idx]
	word, code := dev.Read(offset)
	if code != fault.None {
		return 0, &fault.Fault{
			Code:           code,
			PGA:            addr,
			DeviceCategory: uint16(dev.Metadata().Category),
		}
	}
	return word, nil
}

// WriteWord implements bus.Transactor, symmetric with ReadWord.
func (m *Motherboard) WriteWord(addr uint32, val uint32) *fault.Fault {
	if f := bus.CheckAlignment(addr); f != nil {
		return f
	}
	idx, offset, ok := m.addrMap.Lookup(addr)
	if !ok {
		return &fault.Fault{Code: fault.UnmappedAddress, PGA: addr}
	}
	dev := m.devices[idx]
	code := dev.Write(offset, val)
	if code != fault.None {
		return &fault.Fault{
			Code:           code,
			PGA:            addr,
			DeviceCategory: uint16(dev.Metadata().Category),
		}
	}
	return nil
}

// Run steps the CPU until it halts or maxSteps instructions have executed,
// whichever comes first. Supplements spec.md §8's example scenarios, each
// of which drives the CPU to completion by hand; a host wiring up a real
// program wants a loop instead of manual Next() calls.
func (m *Motherboard) Run(maxSteps int) (steps int, halted bool) {
	for steps = 0; steps < maxSteps; steps++ {
		if m.cpu.Halted() {
			return steps, true
		}
		m.cpu.Next()
	}
	return steps, m.cpu.Halted()
}
