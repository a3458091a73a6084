package counter

import "fmt"

type OverflowError struct {
	Value     int8
	Operation string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s would overflow counter at %d", e.Operation, e.Value)
}

func (e *OverflowError) ContractError() {}

func Overflow(value int8, operation string) error {
	return &OverflowError{Value: value, Operation: operation}
}
