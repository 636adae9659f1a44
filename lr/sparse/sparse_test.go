package sparse

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMatrixSetAndAdd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	M.Add(2, 3, 123)
	if a, b := M.Values(2, 3); a != 4711 || b != 123 {
		t.Errorf("expected M(2,3) = (4711,123), is (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position to be set, have %d", M.ValueCount())
	}
	if M.Value(9, 9) != M.NullValue() {
		t.Errorf("expected empty position to return null value")
	}
}

func TestMatrixFullEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	M := NewIntMatrix(3, 3, -1)
	M.Add(1, 1, 5).Add(1, 1, 6).Add(1, 1, 7)
	if a, b := M.Values(1, 1); a != 5 || b != 6 {
		t.Errorf("expected third value to be dropped, have (%d,%d)", a, b)
	}
	M.Add(1, 2, 8).Add(1, 2, 8)
	if M.Count(1, 2) != 1 {
		t.Errorf("expected duplicate value to be stored once, count is %d", M.Count(1, 2))
	}
	if M.Count(0, 0) != 0 || M.Count(1, 1) != 2 {
		t.Errorf("unexpected counts")
	}
}

func TestMatrixEachIsRowMajor(t *testing.T) {
	M := NewIntMatrix(4, 4, DefaultNullValue)
	M.Set(3, 0, 1)
	M.Set(0, 2, 2)
	M.Set(0, 1, 3)
	var order []int32
	M.Each(func(i, j int, a, b int32) {
		order = append(order, a)
	})
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("expected row-major order [3 2 1], have %v", order)
	}
}

func TestMatrixIndexOutOfRange(t *testing.T) {
	M := NewIntMatrix(2, 2, -1)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected Set(2,0) on 2 x 2 matrix to panic")
		}
	}()
	M.Set(2, 0, 1)
}
