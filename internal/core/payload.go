package core

import "github.com/vovakirdan/ssn-relay/internal/proto"

// Payload is the located chat record.
type Payload struct {
	obj *proto.Object
}

// NewPayload wraps a located object.
func NewPayload(obj *proto.Object) Payload {
	return Payload{obj: obj}
}

// Message returns the first non-empty text among chatmessage, message, msg, text.
func (p Payload) Message() string {
	return p.first(messageKeys)
}

// Name returns the speaker's display name, or "" when absent.
func (p Payload) Name() string {
	return p.first(nameKeys)
}

// Source returns the platform the message came from, when the aggregator says.
func (p Payload) Source() string {
	return p.first(sourceKeys)
}

func (p Payload) first(keys []string) string {
	if p.obj == nil {
		return ""
	}
	for _, k := range keys {
		v, ok := p.obj.Get(k)
		if !ok {
			continue
		}
		if s, ok := proto.Text(v); ok && s != "" {
			return s
		}
	}
	return ""
}
