package ir

import (
	"silica/internal/behavior"
	"silica/internal/errors"
)

// VerifyOptimizationBehaviorPreserved gates optimized modules on their
// behavior descriptors: kind, bit width, and the ordered port name/role
// list must match exactly. The check is a conservative structural gate, not
// a semantic proof: a rewrite that changes logic but keeps the interface
// and classification passes it.
func VerifyOptimizationBehaviorPreserved(before, after *behavior.Descriptor) error {
	if before == nil || after == nil {
		return errors.InvalidArgumentf("", "behavior descriptors must be non-nil")
	}
	if before.BehaviorKind != after.BehaviorKind {
		return errors.BehaviorChangedf(errors.CodeBehaviorChanged,
			"behavior kind changed from %s to %s", before.BehaviorKind, after.BehaviorKind)
	}
	if before.BitWidth != after.BitWidth {
		return errors.BehaviorChangedf(errors.CodeBehaviorChanged,
			"bit width changed from %d to %d", before.BitWidth, after.BitWidth)
	}
	if len(before.Ports) != len(after.Ports) {
		return errors.BehaviorChangedf(errors.CodeBehaviorChanged,
			"port count changed from %d to %d", len(before.Ports), len(after.Ports))
	}
	for i := range before.Ports {
		b, a := before.Ports[i], after.Ports[i]
		if b.PortName != a.PortName {
			return errors.BehaviorChangedf(errors.CodeBehaviorChanged,
				"port %d renamed from %q to %q", i, b.PortName, a.PortName)
		}
		if b.Role != a.Role {
			return errors.BehaviorChangedf(errors.CodeBehaviorChanged,
				"port %q role changed from %s to %s", b.PortName, b.Role, a.Role)
		}
	}
	return nil
}

// DescriptorForModule re-derives a descriptor from a module's interface so
// the verification gate can compare an optimized module against the
// original's descriptor. Kind and subject carry over from the original
// inference; ports and width come from the module itself.
func DescriptorForModule(m *Module, from *behavior.Descriptor) *behavior.Descriptor {
	d := &behavior.Descriptor{
		SubjectID:    m.ID,
		SubjectKind:  from.SubjectKind,
		BehaviorKind: from.BehaviorKind,
		BitWidth:     -1,
		Description:  from.Description,
	}
	byName := map[string]Value{}
	for _, values := range [][]Value{m.Inputs, m.Outputs} {
		for _, v := range values {
			byName[v.Name] = v
		}
	}

	// Keep the original descriptor's port order so the order-sensitive
	// verification gate only trips on real interface changes.
	emitted := map[string]bool{}
	for _, p := range from.Ports {
		v, ok := byName[p.PortName]
		if !ok {
			continue
		}
		emitted[p.PortName] = true
		d.Ports = append(d.Ports, behavior.PortRole{PortName: p.PortName, Role: p.Role})
		if v.BitWidth > d.BitWidth {
			d.BitWidth = v.BitWidth
		}
	}
	for _, values := range [][]Value{m.Inputs, m.Outputs} {
		for _, v := range values {
			if emitted[v.Name] {
				continue
			}
			d.Ports = append(d.Ports, behavior.PortRole{PortName: v.Name, Role: behavior.RoleUnknown})
			if v.BitWidth > d.BitWidth {
				d.BitWidth = v.BitWidth
			}
		}
	}
	return d
}
