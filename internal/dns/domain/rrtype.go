package domain

import "fmt"

// RRType represents a DNS resource record type. Only the types the record
// codec knows how to decode a typed rdata for are considered valid; every
// other on-the-wire value still decodes, but as an UNKNOWN record rather
// than through one of these constants.
type RRType uint16

// DNS Resource Record Type constants supported by the record codec.
const (
	RRTypeA     RRType = 1  // A - IPv4 address
	RRTypeNS    RRType = 2  // NS - Name server
	RRTypeCNAME RRType = 5  // CNAME - Canonical name
	RRTypeMX    RRType = 15 // MX - Mail exchange
	RRTypeAAAA  RRType = 28 // AAAA - IPv6 address
)

// IsValid returns true if the RRType has a typed rdata decoder.
func (t RRType) IsValid() bool {
	switch t {
	case RRTypeA, RRTypeNS, RRTypeCNAME, RRTypeMX, RRTypeAAAA:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType.
// For unrecognized types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeNS:
		return "NS"
	case RRTypeCNAME:
		return "CNAME"
	case RRTypeMX:
		return "MX"
	case RRTypeAAAA:
		return "AAAA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// RRTypeFromString converts a record type name to its RRType value.
// Returns 0 for names the codec does not decode a typed rdata for.
func RRTypeFromString(s string) RRType {
	switch s {
	case "A":
		return RRTypeA
	case "NS":
		return RRTypeNS
	case "CNAME":
		return RRTypeCNAME
	case "MX":
		return RRTypeMX
	case "AAAA":
		return RRTypeAAAA
	default:
		return 0
	}
}
