package code

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Codes for transfer checks and delivers responses
const (
	// general
	OK                    uint32 = 0
	DecodeError           uint32 = 106
	InsufficientFunds     uint32 = 107
	InsufficientAllowance uint32 = 108
	ArithmeticOverflow    uint32 = 112

	// addresses
	WrongAddress    uint32 = 120
	TransferToVault uint32 = 121
)

// Error is returned by every failed ledger operation. Info is rendered as is by the API.
type Error struct {
	Code uint32
	Log  string
	Info interface{}
}

func (e *Error) Error() string {
	return e.Log
}

func newError(code uint32, info interface{}, format string, args ...interface{}) *Error {
	return &Error{Code: code, Log: fmt.Sprintf(format, args...), Info: info}
}

// Of returns the response code of err, OK for nil and DecodeError for unknown errors.
func Of(err error) uint32 {
	if err == nil {
		return OK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return DecodeError
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Sender      string `json:"sender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	HasValue    string `json:"has_value,omitempty"`
}

func NewInsufficientFunds(sender string, neededValue string, hasValue string) *Error {
	return newError(InsufficientFunds,
		&insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Sender: sender, NeededValue: neededValue, HasValue: hasValue},
		"Insufficient funds for sender account: %s. Wanted %s, has %s", sender, neededValue, hasValue)
}

type insufficientAllowance struct {
	Code        string `json:"code,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Spender     string `json:"spender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	HasValue    string `json:"has_value,omitempty"`
}

func NewInsufficientAllowance(owner string, spender string, neededValue string, hasValue string) *Error {
	return newError(InsufficientAllowance,
		&insufficientAllowance{Code: strconv.Itoa(int(InsufficientAllowance)), Owner: owner, Spender: spender, NeededValue: neededValue, HasValue: hasValue},
		"Insufficient allowance of %s for spender %s. Wanted %s, has %s", owner, spender, neededValue, hasValue)
}

type arithmeticOverflow struct {
	Code      string `json:"code,omitempty"`
	Operation string `json:"operation,omitempty"`
}

func NewArithmeticOverflow(operation string) *Error {
	return newError(ArithmeticOverflow,
		&arithmeticOverflow{Code: strconv.Itoa(int(ArithmeticOverflow)), Operation: operation},
		"Arithmetic overflow in %s", operation)
}

type wrongAddress struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewWrongAddress(address string, reason string) *Error {
	return newError(WrongAddress,
		&wrongAddress{Code: strconv.Itoa(int(WrongAddress)), Address: address},
		"Wrong address %s: %s", address, reason)
}

func NewTransferToVault(address string) *Error {
	return newError(TransferToVault,
		&wrongAddress{Code: strconv.Itoa(int(TransferToVault)), Address: address},
		"Address %s is reserved by the lottery", address)
}

type decodeError struct {
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

func NewDecodeError(field string, err error) *Error {
	return newError(DecodeError,
		&decodeError{Code: strconv.Itoa(int(DecodeError)), Field: field},
		"Decode error in %s: %s", field, err)
}
