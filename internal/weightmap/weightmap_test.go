package weightmap

import (
	"testing"

	"github.com/AnyUserName/da3d-cli/internal/img"
)

func TestNewStartsAtZero(t *testing.T) {
	m := New(3, 5)
	if m.Rows() != 3 || m.Columns() != 5 {
		t.Fatalf("shape: got %dx%d", m.Rows(), m.Columns())
	}
	if m.Minimum() != 0 {
		t.Errorf("minimum of fresh map: got %g, want 0", m.Minimum())
	}
}

func TestFindMinimumTieBreak(t *testing.T) {
	// All equal: the first cell in row-major order wins.
	m := New(3, 3)
	if pr, pc := m.FindMinimum(); pr != 0 || pc != 0 {
		t.Errorf("tie break: got (%d,%d), want (0,0)", pr, pc)
	}
}

func TestFindMinimumLocates(t *testing.T) {
	m := New(4, 4)
	k := img.New(4, 4, 1)
	k.Fill(1)
	m.IncreaseWeights(k, 0, 0)

	// Dig a hole at (2, 3).
	hole := img.New(1, 1, 1)
	hole.Fill(-0.5)
	m.IncreaseWeights(hole, 2, 3)

	if pr, pc := m.FindMinimum(); pr != 2 || pc != 3 {
		t.Errorf("got (%d,%d), want (2,3)", pr, pc)
	}
	if got := m.Minimum(); got != 0.5 {
		t.Errorf("minimum: got %g, want 0.5", got)
	}
}

func TestIncreaseWeightsClips(t *testing.T) {
	m := New(3, 3)
	k := img.New(2, 2, 1)
	k.SetVal(0, 0, 0, 1)
	k.SetVal(1, 0, 0, 2)
	k.SetVal(0, 1, 0, 3)
	k.SetVal(1, 1, 0, 4)

	// Anchor off the top-left corner: only the kernel's bottom-right
	// cell lands inside the map.
	m.IncreaseWeights(k, -1, -1)

	if got := m.Minimum(); got != 0 {
		t.Errorf("minimum: got %g, want 0", got)
	}
	// Only (0,0) received weight 4; FindMinimum must not return it.
	if pr, pc := m.FindMinimum(); pr == 0 && pc == 0 {
		t.Error("(0,0) should have received the clipped contribution")
	}

	// Off the bottom-right corner symmetrically.
	m2 := New(3, 3)
	m2.IncreaseWeights(k, 2, 2)
	if pr, pc := m2.FindMinimum(); pr == 2 && pc == 2 {
		t.Error("(2,2) should have received the clipped contribution")
	}
}

func TestIncreaseWeightsAccumulates(t *testing.T) {
	m := New(2, 2)
	k := img.New(2, 2, 1)
	k.Fill(0.25)
	m.IncreaseWeights(k, 0, 0)
	m.IncreaseWeights(k, 0, 0)
	if got := m.Minimum(); got != 0.5 {
		t.Errorf("accumulated minimum: got %g, want 0.5", got)
	}
}
