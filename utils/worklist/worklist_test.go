package worklist

import (
	"reflect"
	"testing"
)

func TestWorklistOrder(t *testing.T) {
	var seen []int
	Start(1, func(next int, add func(int)) {
		seen = append(seen, next)
		if next < 3 {
			add(next * 10)
			add(next + 1)
		}
	})

	expected := []int{1, 10, 2, 20, 3}
	if !reflect.DeepEqual(seen, expected) {
		t.Errorf("visited %v, expected %v", seen, expected)
	}
}

func TestStackOrder(t *testing.T) {
	S := EmptyStack[string]()
	S.Push("a", "b")
	S.Push("c")

	var seen []string
	for !S.IsEmpty() {
		seen = append(seen, S.Pop())
	}

	expected := []string{"c", "b", "a"}
	if !reflect.DeepEqual(seen, expected) {
		t.Errorf("popped %v, expected %v", seen, expected)
	}
	if S.Pop() != "" {
		t.Error("Pop on an empty stack should yield the zero value")
	}
}
