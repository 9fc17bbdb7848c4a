package ring

import (
	"reflect"
	"testing"
	"time"
)

var bufferTests = []struct {
	name string
	ops  func() any
	want any
}{
	{
		name: "new_4_int",
		ops: func() any {
			return NewBuffer[int](4)
		},
		want: &Buffer[int]{data: make([]int, 4)},
	},
	{
		name: "new_4_int_push_2",
		ops: func() any {
			r := NewBuffer[int](4)
			r.Push(1)
			r.Push(2)
			return r
		},
		want: &Buffer[int]{data: []int{1, 2, 0, 0}, head: 0, n: 2},
	},
	{
		name: "new_4_int_push_5",
		ops: func() any {
			r := NewBuffer[int](4)
			for v := 1; v <= 5; v++ {
				r.Push(v)
			}
			return r
		},
		want: &Buffer[int]{data: []int{5, 2, 3, 4}, head: 1, n: 4},
	},
	{
		name: "new_4_int_write_3_2_copy",
		ops: func() any {
			r := NewBuffer[int](4)
			r.Write([]int{1, 2, 3})
			r.Write([]int{4, 5})
			var buf [4]int
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []int{2, 3, 4, 5},
	},
	{
		name: "new_4_int_write_6",
		ops: func() any {
			r := NewBuffer[int](4)
			r.Write([]int{1, 2, 3, 4, 5, 6})
			return r
		},
		want: &Buffer[int]{data: []int{3, 4, 5, 6}, head: 0, n: 4},
	},
	{
		name: "short_copy",
		ops: func() any {
			r := NewBuffer[int](4)
			r.Write([]int{1, 2, 3, 4, 5})
			var buf [2]int
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []int{2, 3},
	},
	{
		name: "do_wrapped",
		ops: func() any {
			r := NewBuffer[int](3)
			r.Write([]int{1, 2, 3, 4})
			var got []int
			r.Do(func(v int) { got = append(got, v) })
			return got
		},
		want: []int{2, 3, 4},
	},
	{
		name: "reset",
		ops: func() any {
			r := NewBuffer[int](3)
			r.Write([]int{1, 2, 3, 4})
			r.Reset()
			r.Push(9)
			var buf [3]int
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []int{9},
	},
	{
		name: "zero_size",
		ops: func() any {
			r := NewBuffer[int](0)
			r.Push(1)
			r.Write([]int{2, 3})
			return r.Len()
		},
		want: 0,
	},
	{
		name: "durations",
		ops: func() any {
			r := NewBuffer[time.Duration](2)
			r.Push(time.Second)
			r.Push(2 * time.Second)
			r.Push(3 * time.Second)
			var sum time.Duration
			r.Do(func(d time.Duration) { sum += d })
			return sum
		},
		want: 5 * time.Second,
	},
}

func TestBuffer(t *testing.T) {
	for _, test := range bufferTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ops()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}
