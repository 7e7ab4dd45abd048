package dynconv

import (
	"reflect"
	"strings"
	"sync"
)

// FieldTag is the parsed form of a struct field's key tag.
type FieldTag struct {
	Name     string // external key; "-" disables the field
	Optional bool   // absent keys leave the zero value
	Tuple    bool   // set on the `_` marker field of a tuple struct
	explicit bool
}

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key.
// Priority: <tagName>:"name" (or "name=...") > json tag name > field name;
// "-" disables the field. Options "optional" and "omitempty" make the field
// optional; "tuple" on the blank field marks a tuple struct.
func ResolveStructKey(sf reflect.StructField, tagName string) FieldTag {
	ft := FieldTag{Name: sf.Name}
	for _, key := range []string{tagName, "json"} {
		raw, ok := sf.Tag.Lookup(key)
		if !ok || raw == "" {
			continue
		}
		if raw == "-" {
			return FieldTag{Name: "-", explicit: true}
		}
		parts := strings.Split(raw, ",")
		for i, p := range parts {
			p = strings.TrimSpace(p)
			switch {
			case strings.HasPrefix(p, "name="):
				ft.Name, ft.explicit = strings.TrimPrefix(p, "name="), true
			case i == 0 && p != "":
				ft.Name, ft.explicit = p, true
			case p == "optional" || p == "omitempty":
				ft.Optional = true
			case p == "tuple":
				ft.Tuple = true
			}
		}
		return ft
	}
	return ft
}

type structKind int

const (
	recordStruct structKind = iota
	tupleStruct
	unitStruct
)

type fieldPlan struct {
	name     string
	index    []int
	optional bool
}

// structPlan is the schema descriptor derived from a struct type.
type structPlan struct {
	typ    reflect.Type
	kind   structKind
	fields []fieldPlan
	names  []string
	byName map[string]int
}

type planKey struct {
	t   reflect.Type
	tag string
}

var structPlans sync.Map // planKey -> *structPlan

func structPlanFor(t reflect.Type, tagName string) *structPlan {
	k := planKey{t, tagName}
	if p, ok := structPlans.Load(k); ok {
		return p.(*structPlan)
	}
	p := &structPlan{typ: t, byName: map[string]int{}}
	if t.NumField() == 0 {
		p.kind = unitStruct
	} else {
		p.collect(t, tagName, nil)
	}
	actual, _ := structPlans.LoadOrStore(k, p)
	return actual.(*structPlan)
}

func (p *structPlan) collect(t reflect.Type, tagName string, prefix []int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		ft := ResolveStructKey(sf, tagName)
		if sf.Name == "_" {
			if ft.Tuple {
				p.kind = tupleStruct
			}
			continue
		}
		if ft.Name == "-" {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if sf.Anonymous && !ft.explicit && sf.Type.Kind() == reflect.Struct {
			p.collect(sf.Type, tagName, index)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if _, dup := p.byName[ft.Name]; dup {
			// First declaration wins.
			continue
		}
		p.byName[ft.Name] = len(p.fields)
		p.fields = append(p.fields, fieldPlan{
			name:     ft.Name,
			index:    index,
			optional: ft.Optional || sf.Type.Kind() == reflect.Pointer,
		})
		p.names = append(p.names, ft.Name)
	}
}
