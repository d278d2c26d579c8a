// Package assert provides the checks used inside test methods.
//
// Every check either returns normally or panics with an *outcome.Failure
// whose Kind names the violated condition. The execution engine recovers the
// panic and records the failure. Checks have no other side effects.
//
// Each check takes an optional message. When given, the first message is used
// verbatim as the failure message; otherwise a default naming the check is
// used.
//
//	func (s *CartSuite) AddItem() {
//	    s.cart.Add("widget", 3)
//	    assert.Equal(3, s.cart.Count("widget"))
//	    assert.Contains("widget", s.cart.Items(), "cart should list the widget")
//	}
package assert
