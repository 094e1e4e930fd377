package fieldcodec

// Cloner allows types to provide deep copy logic.
// Implementing this interface is required for use with Processor.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. Store encrypts the clone in place, so a
// shallow copy of a slice, map, or nested struct pointer would leak wire
// values back into the caller's record.
//
// For simple value types with no pointers, slices, or maps, Clone can simply return
// the receiver value:
//
//	func (u User) Clone() User { return u }
//
// For types with reference fields, ensure deep copying:
//
//	func (c Contact) Clone() Contact {
//	    emails := make([]string, len(c.Emails))
//	    copy(emails, c.Emails)
//	    return Contact{ID: c.ID, Emails: emails}
//	}
type Cloner[T any] interface {
	Clone() T
}
