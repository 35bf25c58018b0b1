package node_test

import (
	"fmt"
	"reflect"

	"deepstate/internal/analyze"
	"deepstate/node"
)

func ExampleDealer() {
	var d node.Dealer

	d.Needs(reflect.TypeFor[int](), analyze.NewTypePath("int"))
	need, ok := d.NextNeeds()
	fmt.Println("int:", need.Type, need.Path, ok)

	_, ok = d.NextNeeds()
	fmt.Println("empty:", ok)

	d.Needs(reflect.TypeFor[int](), analyze.NewTypePath("int"))
	_, ok = d.NextNeeds()
	fmt.Println("no duplicates:", ok)

	d.Needs(reflect.TypeFor[string](), analyze.NewTypePath("A").Field("Name"))
	d.Needs(reflect.TypeFor[string](), analyze.NewTypePath("B").Field("Name"))
	d.Needs(reflect.TypeFor[bool](), analyze.NewTypePath("A").Field("Ok"))
	need, _ = d.NextNeeds()
	fmt.Println("first path wins:", need.Path)

	need, ok = d.NextNeeds()
	fmt.Println("in order:", need.Type, ok)

	_, ok = d.NextNeeds()
	fmt.Println("no more types:", ok)

	// Output:
	// int: int int true
	// empty: false
	// no duplicates: false
	// first path wins: A.Name
	// in order: bool true
	// no more types: false
}
