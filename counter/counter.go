package counter

import (
	"fmt"
	"math"

	"github.com/weegigs/wee-ledger-go/we"
)

const (
	overflowWarning = "Make sure you don't overflow, my friend."
	resetMessage    = "Reset counter to zero"
)

// Counter is the persisted state of one counter deployment. The field order is
// part of the stored encoding.
type Counter struct {
	Val       int8   `json:"val"`
	AccountId string `json:"account_id"`
	NumTicket uint8  `json:"num_ticket"`
}

func (Counter) ContractName() we.ContractName {
	return "counter"
}

// New starts a counter at zero owned by the account it is deployed to.
func New(env we.Env) *Counter {
	return &Counter{
		Val:       0,
		AccountId: env.CurrentAccount().String(),
		NumTicket: 0,
	}
}

func (c *Counter) GetNum() int8 {
	return c.Val
}

func (c *Counter) GetAcc() string {
	return c.AccountId
}

func (c *Counter) GetNumTicket() uint8 {
	return c.NumTicket
}

func (c *Counter) SetNumTicket(numTicket uint8) {
	c.NumTicket = numTicket
}

// Increment fails with an OverflowError at math.MaxInt8 and leaves the
// counter untouched.
func (c *Counter) Increment(env we.Env) error {
	if c.Val == math.MaxInt8 {
		return Overflow(c.Val, "increment")
	}

	c.Val++
	env.Log(fmt.Sprintf("Increased number to %d", c.Val))
	env.Log(overflowWarning)

	return nil
}

// Decrement fails with an OverflowError at math.MinInt8 and leaves the
// counter untouched.
func (c *Counter) Decrement(env we.Env) error {
	if c.Val == math.MinInt8 {
		return Overflow(c.Val, "decrement")
	}

	c.Val--
	env.Log(fmt.Sprintf("Decreased number to %d", c.Val))
	env.Log(overflowWarning)

	return nil
}

func (c *Counter) Reset(env we.Env) {
	c.Val = 0
	env.Log(resetMessage)
}
