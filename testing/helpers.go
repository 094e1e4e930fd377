// Package testing provides test utilities for fieldcodec.
package testing

import (
	"bytes"
	"testing"

	"github.com/zoobzio/fieldcodec"
)

// TestSecret is the passphrase used by test fixtures.
const TestSecret = "test-passphrase"

// GoldenIV is the fixed IV 00 01 02 ... 0f used for golden vectors.
var GoldenIV = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
}

// GoldenPlaintext and GoldenWire are a CTR golden vector under TestSecret and GoldenIV.
const (
	GoldenPlaintext = "ana@example.com"
	GoldenWire      = "000102030405060708090a0b0c0d0e0f:6dcb42b0c91bed109ccbac8d5b5f87"
)

// TestFieldCodec returns a CTR FieldCodec keyed by TestSecret.
func TestFieldCodec(t testing.TB, opts ...fieldcodec.Option) *fieldcodec.FieldCodec {
	t.Helper()
	fc, err := fieldcodec.New(TestSecret, opts...)
	if err != nil {
		t.Fatalf("fieldcodec.New() error: %v", err)
	}
	return fc
}

// GoldenFieldCodec returns a FieldCodec whose first Encrypt call uses GoldenIV.
func GoldenFieldCodec(t testing.TB) *fieldcodec.FieldCodec {
	t.Helper()
	return TestFieldCodec(t, fieldcodec.WithEntropy(bytes.NewReader(GoldenIV)))
}

// SimpleUser is a test type with no transformation tags.
type SimpleUser struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" bson:"id"`
	Name string `json:"name" yaml:"name" msgpack:"name" bson:"name"`
}

// Clone implements Cloner[SimpleUser].
func (u SimpleUser) Clone() SimpleUser { return u }

// User mirrors a record with one encrypted attribute.
type User struct {
	Name  string `json:"name" yaml:"name" msgpack:"name" bson:"name"`
	Email string `json:"email" yaml:"email" msgpack:"email" bson:"email" store.encrypt:"ctr" load.decrypt:"ctr"`
}

// Clone implements Cloner[User].
func (u User) Clone() User { return u }

// Contact exercises every supported field shape.
type Contact struct {
	ID      string            `json:"id" yaml:"id" msgpack:"id" bson:"id"`
	Phone   *string           `json:"phone" yaml:"phone" msgpack:"phone" bson:"phone" store.encrypt:"ctr" load.decrypt:"ctr"`
	Emails  []string          `json:"emails" yaml:"emails" msgpack:"emails" bson:"emails" store.encrypt:"ctr" load.decrypt:"ctr"`
	Notes   map[string]string `json:"notes" yaml:"notes" msgpack:"notes" bson:"notes" store.encrypt:"ctr" load.decrypt:"ctr"`
	Address *Address          `json:"address" yaml:"address" msgpack:"address" bson:"address"`
}

// Address is nested inside Contact.
type Address struct {
	Street string `json:"street" yaml:"street" msgpack:"street" bson:"street" store.encrypt:"ctr" load.decrypt:"ctr"`
	City   string `json:"city" yaml:"city" msgpack:"city" bson:"city"`
}

// Clone implements Cloner[Contact].
func (c Contact) Clone() Contact {
	clone := Contact{ID: c.ID}
	if c.Phone != nil {
		p := *c.Phone
		clone.Phone = &p
	}
	if c.Emails != nil {
		clone.Emails = make([]string, len(c.Emails))
		copy(clone.Emails, c.Emails)
	}
	if c.Notes != nil {
		clone.Notes = make(map[string]string, len(c.Notes))
		for k, v := range c.Notes {
			clone.Notes[k] = v
		}
	}
	if c.Address != nil {
		a := *c.Address
		clone.Address = &a
	}
	return clone
}
