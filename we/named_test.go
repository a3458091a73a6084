package we

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestState struct{}

type TestNamedState struct{}

func (TestNamedState) TypeName() string {
	return "test:named"
}

func (TestNamedState) ContractName() ContractName {
	return "named"
}

func resolvesExplicitName(t *testing.T) {
	assert.Equal(t, "test:named", NameOf(TestNamedState{}))
	assert.Equal(t, ContractName("named"), ContractNameOf(TestNamedState{}))
}

func resolvesImplicitName(t *testing.T) {
	assert.Equal(t, "we:test-state", NameOf(TestState{}))
	assert.Equal(t, "we:test-state", NameOf(&TestState{}))
	assert.Equal(t, ContractName("we-test-state"), ContractNameOf(TestState{}))
}

func normalizesMethodNames(t *testing.T) {
	assert.Equal(t, MethodName("get_num"), MethodNameOf("GetNum"))
	assert.Equal(t, MethodName("get_num"), MethodNameOf("getNum"))
	assert.Equal(t, MethodName("get_num"), MethodNameOf("get-num"))
	assert.Equal(t, MethodName("get_um_ticket"), MethodNameOf("get_um_ticket"))
	assert.Equal(t, MethodName("new"), MethodNameOf("new"))
}

func TestNames(t *testing.T) {
	t.Run("resolves explicit name", resolvesExplicitName)
	t.Run("resolves implicit name", resolvesImplicitName)
	t.Run("normalizes method names", normalizesMethodNames)
}

func TestDeploymentIds(t *testing.T) {
	id := DeploymentId{Contract: "counter", Account: "counter.alice.testnet"}

	encoded := id.Encode()
	assert.Equal(t, EncodedDeploymentId("counter.counter.alice.testnet"), encoded)

	decoded, err := encoded.Decode()
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, id, *decoded)

	_, err = EncodedDeploymentId("counter").Decode()
	assert.NotNil(t, err)
}
