// Package property provides reflection-style access to named properties of
// arbitrary model objects: reading, writing and observing changes.
//
// Model types opt into change notification by embedding Model and routing
// their setters through Update:
//
//	type Address struct {
//	    property.Model
//	    street string
//	}
//
//	func (a *Address) Street() string      { return a.street }
//	func (a *Address) SetStreet(s string) { property.Update(&a.Model, "Street", &a.street, s) }
//
// Property names are matched loosely: "street", "Street", "year_of_birth" and
// "YearOfBirth" address the same Go identifier. Readers are resolved as a
// Name() or GetName() method, then an exported field; writers as a SetName(v)
// method, then a settable exported field. Objects may instead implement
// Getter and Setter to expose computed or dynamic properties.
//
// Values written through Set are coerced to the destination type using the
// conversion families in Conversions (see package primitive), so a text
// control can write "30" into an int property.
package property
