package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
// Only 0..6 are valid on the wire; a header carrying any other value is
// malformed (see DecodeHeader in the wire package).
type RCode uint8

// DNS response code constants.
const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
	RCodeNoData   RCode = 6
)

// IsValid returns true if the RCode is within the supported response code range.
func (r RCode) IsValid() bool {
	return r <= RCodeNoData
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	case RCodeNoData:
		return "NODATA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
	}
}

// ParseRCode converts a string name to an RCode value.
func ParseRCode(s string) RCode {
	switch s {
	case "NOERROR":
		return RCodeNoError
	case "FORMERR":
		return RCodeFormErr
	case "SERVFAIL":
		return RCodeServFail
	case "NXDOMAIN":
		return RCodeNXDomain
	case "NOTIMP":
		return RCodeNotImp
	case "REFUSED":
		return RCodeRefused
	case "NODATA":
		return RCodeNoData
	default:
		return RCodeNoError
	}
}
