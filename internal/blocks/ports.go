package blocks

import (
	"strings"

	"silica/internal/circuit"
	"silica/internal/graph"
)

// DetermineBlockPorts derives a block's external interface. A pin is
// external when its net touches a component outside the block or when it
// sits on the circuit boundary (no net at all). Member pins sharing a net
// coalesce into one multi-pin port, modeling bit-sliced buses; direction is
// inherited from pin direction.
func DetermineBlockPorts(c *circuit.Circuit, g *graph.Graph, members []string) []Port {
	member := map[string]bool{}
	for _, m := range members {
		member[m] = true
	}

	// Net attachments, from the snapshot's wires.
	netPins := map[string][]circuit.Endpoint{}
	pinNets := map[string][]string{}
	for i := range c.Wires {
		w := &c.Wires[i]
		for _, ep := range []circuit.Endpoint{w.A, w.B} {
			netPins[w.ID] = append(netPins[w.ID], ep)
			key := ep.Component + ":" + ep.Pin
			pinNets[key] = append(pinNets[key], w.ID)
		}
	}

	external := func(net string) bool {
		for _, ep := range netPins[net] {
			if !member[ep.Component] {
				return true
			}
		}
		return false
	}

	memberPinsOnNet := func(net string) []circuit.Endpoint {
		var pins []circuit.Endpoint
		for _, m := range members {
			comp, ok := c.FindComponent(m)
			if !ok {
				continue
			}
			for _, p := range append(append([]circuit.Pin{}, comp.Inputs...), comp.Outputs...) {
				for _, n := range pinNets[m+":"+p.Name] {
					if n == net {
						pins = append(pins, circuit.Endpoint{Component: m, Pin: p.Name})
					}
				}
			}
		}
		return pins
	}

	var ports []Port
	seenNet := map[string]bool{}
	for _, m := range members {
		comp, ok := c.FindComponent(m)
		if !ok {
			continue
		}
		for _, p := range append(append([]circuit.Pin{}, comp.Inputs...), comp.Outputs...) {
			key := m + ":" + p.Name
			nets := pinNets[key]
			if len(nets) == 0 {
				// Boundary pin: external by definition, its own port.
				dir, _ := comp.PinDirection(p.Name)
				ports = append(ports, Port{
					Name:      p.Name,
					Direction: dir,
					Pins:      []string{key},
				})
				continue
			}
			for _, net := range nets {
				if seenNet[net] {
					continue
				}
				seenNet[net] = true
				if !external(net) {
					continue
				}
				pins := memberPinsOnNet(net)
				if len(pins) == 0 {
					continue
				}
				first, _ := c.FindComponent(pins[0].Component)
				dir, _ := first.PinDirection(pins[0].Pin)
				ids := make([]string, 0, len(pins))
				names := make([]string, 0, len(pins))
				for _, ep := range pins {
					ids = append(ids, ep.Component+":"+ep.Pin)
					names = append(names, ep.Pin)
				}
				ports = append(ports, Port{
					Name:      portName(names),
					Direction: dir,
					Pins:      ids,
				})
			}
		}
	}
	return ports
}

// portName derives a port name from its pin names: the common name with
// trailing bit indices stripped, or the first pin's name when the group is
// not uniform.
func portName(pinNames []string) string {
	if len(pinNames) == 1 {
		return pinNames[0]
	}
	base := strings.TrimRight(pinNames[0], "0123456789")
	for _, n := range pinNames[1:] {
		if strings.TrimRight(n, "0123456789") != base {
			return pinNames[0]
		}
	}
	if base == "" {
		return pinNames[0]
	}
	return base
}
