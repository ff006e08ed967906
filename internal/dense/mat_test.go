package dense

import "testing"

func TestMatrixAddressing(t *testing.T) {
	m := New(3, 2)
	m.Set(0, 0, 1)
	m.Set(2, 0, 3)
	m.Set(1, 1, 5)

	if got := m.At(2, 0); got != 3 {
		t.Fatalf("At(2,0) = %g, want 3", got)
	}
	// Column-major: column 0 occupies the first Ld elements.
	want := []float64{1, 0, 3, 0, 5, 0}
	for i, v := range want {
		if m.Data[i] != v {
			t.Fatalf("Data[%d] = %g, want %g", i, m.Data[i], v)
		}
	}
	col := m.Col(1)
	if len(col) != 3 || col[1] != 5 {
		t.Fatalf("Col(1) = %v, want [0 5 0]", col)
	}
}

func TestFromDataAliases(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	m := FromData(2, 2, data)
	m.Set(0, 1, 9)
	if data[2] != 9 {
		t.Fatalf("backing slice not aliased: data = %v", data)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("FromData with short data did not panic")
		}
	}()
	FromData(3, 3, data)
}

func TestIdentity(t *testing.T) {
	m := Identity(4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if m.At(r, c) != want {
				t.Fatalf("I[%d,%d] = %g, want %g", r, c, m.At(r, c), want)
			}
		}
	}
}

func TestCloneIndependent(t *testing.T) {
	m := New(2, 2)
	FillRand(m, 1)
	c := m.Clone()
	if MaxAbsDiff(m, c) != 0 {
		t.Fatal("clone differs from original")
	}
	c.Set(0, 0, c.At(0, 0)+1)
	if MaxAbsDiff(m, c) != 1 {
		t.Fatal("clone shares storage with original")
	}
}

func TestFillRandDeterministic(t *testing.T) {
	a := New(5, 5)
	b := New(5, 5)
	FillRand(a, 42)
	FillRand(b, 42)
	if MaxAbsDiff(a, b) != 0 {
		t.Fatal("same seed produced different values")
	}
	for _, v := range a.Data {
		if v < -1 || v >= 1 {
			t.Fatalf("value %g outside [-1,1)", v)
		}
	}
	FillRand(b, 43)
	if MaxAbsDiff(a, b) == 0 {
		t.Fatal("different seeds produced identical values")
	}
}
