package dynconv

//go:generate go tool stringer -type=Category -trimprefix=Category -output=category_string.go

// Category is the shape the classifier assigns to a dynamic value.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNone
	CategoryBool
	CategoryInt
	CategorySequence
	CategoryMapping
	CategoryString
	CategoryBytes
	CategoryFloat
	CategorySet
)
