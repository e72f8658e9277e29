// Package model defines the field descriptors, registry and record types the
// rest of the module works with. A Registry lists the fields of a form in
// display order; each FieldDescriptor carries a Kind whose behavior decides
// how raw input is shaped, how a stored value becomes form text, and what the
// blank value is. User records keep every field as text, matching the JSON
// bodies exchanged with the persistence API. Labels default to the title-cased
// field name when a descriptor omits one.
package model
