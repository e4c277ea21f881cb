package core

import "github.com/vovakirdan/ssn-relay/internal/proto"

// Keys the aggregator uses for the message text and speaker name, in lookup order.
var (
	messageKeys = []string{"chatmessage", "message", "msg", "text"}
	nameKeys    = []string{"chatname", "name"}
	sourceKeys  = []string{"type", "platform"}
)

// Locate finds the chat record inside an arbitrarily shaped event.
//
// An object carrying both "chatmessage" and "chatname" anywhere in the tree wins.
// Only when no such object exists does the first object with any message key,
// in depth-first key order, qualify.
func Locate(event any) (*proto.Object, bool) {
	if obj, ok := search(event, isFullRecord); ok {
		return obj, true
	}
	return search(event, hasMessageKey)
}

func isFullRecord(obj *proto.Object) bool {
	return obj.Has("chatmessage") && obj.Has("chatname")
}

func hasMessageKey(obj *proto.Object) bool {
	for _, k := range messageKeys {
		if obj.Has(k) {
			return true
		}
	}
	return false
}

// search returns the first object matching in pre-order, walking an explicit
// work list so nesting depth is bounded by memory, not the goroutine stack.
func search(root any, match func(*proto.Object) bool) (*proto.Object, bool) {
	work := []any{root}
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]

		var children []any
		switch n := node.(type) {
		case *proto.Object:
			if match(n) {
				return n, true
			}
			children = n.Values()
		case []any:
			children = n
		default:
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, children[i])
		}
	}
	return nil, false
}
