package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func HexToHash(s string) Hash { return BytesToHash(FromHex(s, "Mh")) }

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string {
	return "Mh" + hex.EncodeToString(h[:])
}

// SetBytes sets the hash to the value of b. If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", h.String())), nil
}

func (h *Hash) UnmarshalJSON(input []byte) error {
	return unmarshalFixedJSON("Hash", input, "Mh", h[:])
}

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s, "Mx")) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// Minter address or not.
func IsHexAddress(s string) bool {
	if hasHexPrefix(s, "Mx") {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string {
	return "Mx" + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

// SetBytes sets the address to the value of b. If b is larger than len(a), b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a[:], a2[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses an address in Mx-prefixed hex syntax.
func (a *Address) UnmarshalText(input []byte) error {
	return unmarshalFixedText("Address", input, "Mx", a[:])
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

func (a *Address) UnmarshalJSON(input []byte) error {
	return unmarshalFixedJSON("Address", input, "Mx", a[:])
}

// ParseAddress parses and validates Mx-prefixed address string.
func ParseAddress(s string) (Address, error) {
	if !hasHexPrefix(s, "Mx") {
		return Address{}, errors.Errorf("address %q should start with Mx", s)
	}
	if !IsHexAddress(s) {
		return Address{}, errors.Errorf("invalid address %q", s)
	}

	return HexToAddress(s), nil
}

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with the given prefix.
func FromHex(s string, prefix string) []byte {
	if hasHexPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	h, _ := hex.DecodeString(s)
	return h
}

func hasHexPrefix(str, prefix string) bool {
	return len(str) >= len(prefix) && strings.EqualFold(str[:len(prefix)], prefix)
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unmarshalFixedJSON(typname string, input []byte, prefix string, out []byte) error {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return errors.Errorf("json: cannot unmarshal non-string into Go value of type %s", typname)
	}

	return unmarshalFixedText(typname, input[1:len(input)-1], prefix, out)
}

func unmarshalFixedText(typname string, input []byte, prefix string, out []byte) error {
	raw := string(input)
	if !hasHexPrefix(raw, prefix) {
		return errors.Errorf("%s: hex string without %s prefix", typname, prefix)
	}
	raw = raw[len(prefix):]
	if len(raw)/2 != len(out) || !isHex(raw) {
		return errors.Errorf("%s: hex string has wrong length or characters, need %d bytes", typname, len(out))
	}

	if _, err := hex.Decode(out, []byte(raw)); err != nil {
		return errors.Wrap(err, typname)
	}

	return nil
}
