// Package amf encodes AMF0 values, the command serialization used by
// cmd/wireclient to build the payload it hands to a buf.Buffer.
package amf
