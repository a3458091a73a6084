package we

import (
	"fmt"
)

type MethodNotFoundError struct {
	Contract ContractName
	Method   MethodName
}

func (e MethodNotFoundError) Error() string {
	return fmt.Sprintf("unknown method: %s.%s", e.Contract, e.Method)
}

func MethodNotFound(contract ContractName, method MethodName) MethodNotFoundError {
	return MethodNotFoundError{Contract: contract, Method: method}
}

type AlreadyInitializedError struct {
	Deployment DeploymentId
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("%s is already initialized", e.Deployment)
}

func AlreadyInitialized(id DeploymentId) AlreadyInitializedError {
	return AlreadyInitializedError{Deployment: id}
}

type NotInitializedError struct {
	Deployment DeploymentId
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("%s is not initialized", e.Deployment)
}

func NotInitialized(id DeploymentId) NotInitializedError {
	return NotInitializedError{Deployment: id}
}

type NotViewMethodError struct {
	Method MethodName
}

func (e NotViewMethodError) Error() string {
	return fmt.Sprintf("%s is not a view method", e.Method)
}

func NotViewMethod(method MethodName) NotViewMethodError {
	return NotViewMethodError{Method: method}
}

type InvalidArgumentsError struct {
	Cause error
}

func (e InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %v", e.Cause)
}

func (e InvalidArgumentsError) Unwrap() error {
	return e.Cause
}

func InvalidArguments(cause error) InvalidArgumentsError {
	return InvalidArgumentsError{Cause: cause}
}

type ContractMismatchError struct {
	Expected ContractName
	Actual   ContractName
}

func (e ContractMismatchError) Error() string {
	return fmt.Sprintf("expected contract %s, got %s", e.Expected, e.Actual)
}

// ContractError is implemented by errors contract methods return to refuse a
// call. Connectors report them as client errors.
type ContractError interface {
	error
	ContractError()
}
