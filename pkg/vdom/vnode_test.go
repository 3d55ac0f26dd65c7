package vdom

import "testing"

func TestCreateElementMixedArgs(t *testing.T) {
	child := Span(Text("x"))
	node := A(
		Href("/menu"),
		nil,
		[]any{Class("crumb"), "Menu", child},
		Key("menu"),
	)

	if node.Kind != KindElement || node.Tag != "a" {
		t.Fatalf("got %v <%s>, want Element <a>", node.Kind, node.Tag)
	}
	if node.Props["href"] != "/menu" {
		t.Errorf("href = %v, want /menu", node.Props["href"])
	}
	if node.Props["class"] != "crumb" {
		t.Errorf("class = %v, want crumb", node.Props["class"])
	}
	if node.Key != "menu" {
		t.Errorf("Key = %q, want menu", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if len(node.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "Menu" {
		t.Errorf("first child = %+v, want text Menu", node.Children[0])
	}
	if node.Children[1] != child {
		t.Error("second child should be the span")
	}
}

func TestClassSkipsEmpty(t *testing.T) {
	a := Class("a", "", "  ", "b")
	if a.Value != "a b" {
		t.Errorf("Class() = %q, want %q", a.Value, "a b")
	}
}

func TestFragmentFlattens(t *testing.T) {
	f := Fragment(nil, "a", []*VNode{Text("b"), nil}, []any{Text("c")}, Class("ignored"))
	if f.Kind != KindFragment {
		t.Fatalf("Kind = %v, want Fragment", f.Kind)
	}
	if len(f.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(f.Children))
	}
}

func TestComponentChildIsMounted(t *testing.T) {
	c := Named("probe", func() *VNode { return Text("hi") })
	node := Div(c)
	if len(node.Children) != 1 || node.Children[0].Kind != KindComponent {
		t.Fatalf("expected one component child, got %+v", node.Children)
	}
	if ComponentName(node.Children[0].Comp) != "probe" {
		t.Errorf("ComponentName = %q, want probe", ComponentName(node.Children[0].Comp))
	}
	if ComponentName(Func(func() *VNode { return nil })) != "" {
		t.Error("unnamed component should report empty name")
	}
}

func TestRangeDropsNil(t *testing.T) {
	nodes := Range([]string{"a", "", "c"}, func(s string, _ int) *VNode {
		if s == "" {
			return nil
		}
		return Text(s)
	})
	if len(nodes) != 2 {
		t.Errorf("Range() len = %d, want 2", len(nodes))
	}
}
