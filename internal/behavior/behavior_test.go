package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silica/internal/blocks"
	"silica/internal/circuit"
)

func TestKindForBlock(t *testing.T) {
	cases := []struct {
		block blocks.Kind
		want  Kind
	}{
		{blocks.Adder, AdderBehavior},
		{blocks.Mux, MuxBehavior},
		{blocks.Comparator, CompareBehavior},
		{blocks.Decoder, DecodeBehavior},
		{blocks.Register, RegisterBehavior},
		{blocks.Latch, RegisterBehavior},
		{blocks.GenericComb, CombBehavior},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindForBlock(tc.block), "block kind %s", tc.block)
	}
}

func TestRoleForPortName(t *testing.T) {
	cases := []struct {
		name string
		dir  circuit.PinDirection
		want Role
	}{
		{"CLK", circuit.DirInput, RoleClock},
		{"clock", circuit.DirInput, RoleClock},
		{"RST", circuit.DirInput, RoleReset},
		{"clr", circuit.DirInput, RoleReset},
		{"EN", circuit.DirInput, RoleEnable},
		{"CIN", circuit.DirInput, RoleCarryIn},
		{"CarryOut", circuit.DirOutput, RoleCarryOut},
		{"SUM", circuit.DirOutput, RoleDataOut},
		{"Q", circuit.DirOutput, RoleDataOut},
		{"D", circuit.DirInput, RoleDataIn},
		{"A", circuit.DirInput, RoleDataIn},
		{"SEL", circuit.DirInput, RoleSelect},
		{"sel2", circuit.DirInput, RoleSelect},
		{"addr", circuit.DirInput, RoleInput},
		{"strange", circuit.DirOutput, RoleOutput},
		{"strange", "", RoleUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoleForPortName(tc.name, tc.dir), "port %s/%s", tc.name, tc.dir)
	}
}

func TestInferBehaviorForBlock(t *testing.T) {
	blk := &blocks.Instance{
		ID:   "blk1",
		Kind: blocks.Adder,
		Ports: []blocks.Port{
			{Name: "A", Direction: circuit.DirInput, Pins: []string{"g0:A0", "g1:A1", "g2:A2", "g3:A3"}},
			{Name: "B", Direction: circuit.DirInput, Pins: []string{"g0:B0", "g1:B1", "g2:B2", "g3:B3"}},
			{Name: "CIN", Direction: circuit.DirInput, Pins: []string{"g0:CIN"}},
			{Name: "SUM", Direction: circuit.DirOutput, Pins: []string{"g0:S0", "g1:S1", "g2:S2", "g3:S3"}},
			{Name: "COUT", Direction: circuit.DirOutput, Pins: []string{"g3:COUT"}},
		},
	}

	d, err := InferBehaviorForBlock(blk, nil)
	require.NoError(t, err)

	assert.Equal(t, "blk1", d.SubjectID)
	assert.Equal(t, string(blocks.Adder), d.SubjectKind)
	assert.Equal(t, AdderBehavior, d.BehaviorKind)
	assert.Equal(t, 4, d.BitWidth, "width is the widest port's pin count")
	assert.Equal(t, "4-bit ripple-carry adder with carry in/out", d.Description)

	require.Len(t, d.Ports, 5)
	assert.Equal(t, PortRole{PortName: "A", Role: RoleDataIn}, d.Ports[0])
	assert.Equal(t, PortRole{PortName: "CIN", Role: RoleCarryIn}, d.Ports[2])
	assert.Equal(t, PortRole{PortName: "SUM", Role: RoleDataOut}, d.Ports[3])
	assert.Equal(t, PortRole{PortName: "COUT", Role: RoleCarryOut}, d.Ports[4])
}

func TestInferBehaviorPortless(t *testing.T) {
	blk := &blocks.Instance{ID: "blk9", Kind: blocks.GenericComb}

	d, err := InferBehaviorForBlock(blk, nil)
	require.NoError(t, err)

	assert.Equal(t, CombBehavior, d.BehaviorKind)
	assert.Equal(t, -1, d.BitWidth, "width unknown without ports")
	assert.Empty(t, d.Ports)
	assert.Equal(t, "uncharacterized combinational logic", d.Description)
}

func TestDescribeUnknownWidth(t *testing.T) {
	blk := &blocks.Instance{
		ID:    "blk2",
		Kind:  blocks.Register,
		Ports: []blocks.Port{{Name: "CLK", Direction: circuit.DirInput}},
	}

	d, err := InferBehaviorForBlock(blk, nil)
	require.NoError(t, err)
	assert.Equal(t, "unknown-width register with synchronous capture", d.Description)
}
