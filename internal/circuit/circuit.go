package circuit

// The circuit snapshot model. A snapshot is the immutable input handed to the
// analysis pipeline: components with typed, named pins and wires connecting
// pin endpoints. The surrounding session/storage layer owns materialization
// and persistence; nothing in this package mutates a snapshot after it is
// built.

// PinDirection distinguishes component inputs from outputs.
type PinDirection string

const (
	DirInput  PinDirection = "input"
	DirOutput PinDirection = "output"
)

// Pin is a single-bit connection point on a component. Multi-bit ports are
// modeled as groups of pins sharing a net.
type Pin struct {
	Name string
}

// Component is a circuit element: a gate primitive (AND, XOR, DFF, ...) or a
// larger macro. Type names the primitive; detectors key on it.
type Component struct {
	ID      string
	Type    string
	Inputs  []Pin
	Outputs []Pin
}

// Endpoint names one end of a wire as component + pin.
type Endpoint struct {
	Component string
	Pin       string
}

// Wire connects exactly two pin endpoints.
type Wire struct {
	ID string
	A  Endpoint
	B  Endpoint
}

// Circuit is one immutable snapshot of a design.
type Circuit struct {
	Name       string
	Components []Component
	Wires      []Wire
}

// FindComponent returns the component with the given id.
func (c *Circuit) FindComponent(id string) (*Component, bool) {
	for i := range c.Components {
		if c.Components[i].ID == id {
			return &c.Components[i], true
		}
	}
	return nil, false
}

// PinDirection reports whether the named pin is an input or output of the
// component. The second return is false when the component has no such pin.
func (c *Component) PinDirection(name string) (PinDirection, bool) {
	for _, p := range c.Inputs {
		if p.Name == name {
			return DirInput, true
		}
	}
	for _, p := range c.Outputs {
		if p.Name == name {
			return DirOutput, true
		}
	}
	return "", false
}

// HasPin reports whether the component declares the named pin.
func (c *Component) HasPin(name string) bool {
	_, ok := c.PinDirection(name)
	return ok
}
