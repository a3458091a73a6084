package we

import (
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

type Named interface {
	TypeName() string
}

func NameOf(value any) string {
	if typed, ok := value.(Named); ok == true {
		return typed.TypeName()
	}

	split := strings.Split(reflect.TypeOf(value).String(), ".")
	segments := make([]string, len(split))
	for i, segment := range split {
		s := strings.TrimLeft(segment, "*")
		segments[i] = strcase.ToKebab(s)
	}

	namespace := segments[0]
	name := strings.Join(segments[1:], "-")

	return namespace + ":" + name
}

type ContractName string

func (name ContractName) String() string {
	return string(name)
}

type ContractNamed interface {
	ContractName() ContractName
}

// ContractNameOf prefers an explicit name. Derived names replace the namespace
// delimiter since contract names may not contain dots or colons.
func ContractNameOf(state any) ContractName {
	if named, ok := state.(ContractNamed); ok == true {
		return named.ContractName()
	}

	return ContractName(strings.ReplaceAll(NameOf(state), ":", "-"))
}

type MethodName string

func (name MethodName) String() string {
	return string(name)
}

// MethodNameOf normalizes the spellings clients use, GetNum, getNum and
// get-num all resolve to get_num.
func MethodNameOf(name string) MethodName {
	return MethodName(strcase.ToSnake(name))
}
