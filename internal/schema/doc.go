// Package schema holds the SObject metadata shapes exchanged with the remote
// describe API.
//
// A Description keeps every describe key it does not model in Attributes,
// byte for byte, so that filtering only ever touches the field lists:
//
//   - Fields: the fields the caller may see. A nil slice means the describe
//     payload carried no "fields" key at all, while an empty slice means the
//     key was present but listed nothing.
//   - RejectedFields: fields removed by a blacklist, kept for diagnostics.
//
// Decoding is done with gjson so that large describe payloads (thousands of
// fields on some standard objects) can be walked without first materialising
// a map[string]any for every field.
package schema
