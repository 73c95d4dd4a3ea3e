// Package message defines the chat message model shared by the store,
// the grouping projector, and presentation consumers.
package message

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is a message's delivery state.
type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusSeen      Status = "seen"
	StatusError     Status = "error"
)

// SystemAuthorID is the reserved author id for system-authored messages.
const SystemAuthorID = ""

// Message is the closed union of chat message variants: text, image,
// file, system, custom. Identity is the ID alone — two messages with the
// same ID are the same entity regardless of the remaining fields, which
// is what allows in-place content updates without changing identity.
//
// Message values are treated as immutable; derive changed copies with
// WithStatus and WithUpdatedAt.
type Message interface {
	// ID returns the stable unique identifier.
	ID() string
	// AuthorID returns the author identifier; "" marks a system author.
	AuthorID() string
	// CreatedAt returns the creation timestamp.
	CreatedAt() time.Time
	// Status returns the delivery state.
	Status() Status
	// ReplyToID returns the replied-to message id, or "".
	ReplyToID() string
	// UpdatedAt returns the last content update time; zero means never.
	UpdatedAt() time.Time
	// Meta returns the opaque consumer metadata, or nil.
	Meta() map[string]any

	sealed()
}

// Base carries the fields shared by every variant.
type Base struct {
	MsgID    string
	Author   string
	Created  time.Time
	State    Status
	Updated  time.Time
	InReply  string
	Metadata map[string]any
}

func (b Base) ID() string           { return b.MsgID }
func (b Base) AuthorID() string     { return b.Author }
func (b Base) CreatedAt() time.Time { return b.Created }
func (b Base) Status() Status       { return b.State }
func (b Base) ReplyToID() string    { return b.InReply }
func (b Base) UpdatedAt() time.Time { return b.Updated }
func (b Base) Meta() map[string]any { return b.Metadata }

// sealed is implemented by each variant, not by Base, so that Base on
// its own does not satisfy Message.
func (TextMessage) sealed()   {}
func (ImageMessage) sealed()  {}
func (FileMessage) sealed()   {}
func (SystemMessage) sealed() {}
func (CustomMessage) sealed() {}

// TextMessage is a plain text chat entry.
type TextMessage struct {
	Base
	Text string
}

// ImageMessage references an image attachment.
type ImageMessage struct {
	Base
	URI    string
	Name   string
	Size   int64
	Width  int
	Height int
}

// FileMessage references an arbitrary file attachment.
type FileMessage struct {
	Base
	URI  string
	Name string
	Size int64
	MIME string
}

// SystemMessage is an informational entry rendered without an author.
type SystemMessage struct {
	Base
	Text string
}

// CustomMessage carries a consumer-defined payload the core does not
// interpret.
type CustomMessage struct {
	Base
	Payload map[string]any
}

// NewText builds a text message with a generated ID and current
// timestamp, in the sending state.
func NewText(authorID, text string) TextMessage {
	return TextMessage{Base: newBase(authorID), Text: text}
}

// NewImage builds an image message with a generated ID.
func NewImage(authorID, uri, name string) ImageMessage {
	return ImageMessage{Base: newBase(authorID), URI: uri, Name: name}
}

// NewFile builds a file message with a generated ID.
func NewFile(authorID, uri, name string, size int64) FileMessage {
	return FileMessage{Base: newBase(authorID), URI: uri, Name: name, Size: size}
}

// NewSystem builds a system message. System messages carry the reserved
// empty author id and are born sent.
func NewSystem(text string) SystemMessage {
	b := newBase(SystemAuthorID)
	b.State = StatusSent
	return SystemMessage{Base: b, Text: text}
}

// NewCustom builds a custom message wrapping an opaque payload.
func NewCustom(authorID string, payload map[string]any) CustomMessage {
	return CustomMessage{Base: newBase(authorID), Payload: payload}
}

func newBase(authorID string) Base {
	return Base{
		MsgID:   uuid.NewString(),
		Author:  authorID,
		Created: time.Now().UTC(),
		State:   StatusSending,
	}
}

// WithStatus returns a copy of m with the delivery state replaced.
// Identity (ID) is preserved so the copy can drive a store update.
func WithStatus(m Message, s Status) Message {
	switch v := m.(type) {
	case TextMessage:
		v.State = s
		return v
	case ImageMessage:
		v.State = s
		return v
	case FileMessage:
		v.State = s
		return v
	case SystemMessage:
		v.State = s
		return v
	case CustomMessage:
		v.State = s
		return v
	}
	panic(fmt.Sprintf("message: unknown variant %T", m))
}

// WithUpdatedAt returns a copy of m stamped with an update time.
func WithUpdatedAt(m Message, at time.Time) Message {
	switch v := m.(type) {
	case TextMessage:
		v.Updated = at
		return v
	case ImageMessage:
		v.Updated = at
		return v
	case FileMessage:
		v.Updated = at
		return v
	case SystemMessage:
		v.Updated = at
		return v
	case CustomMessage:
		v.Updated = at
		return v
	}
	panic(fmt.Sprintf("message: unknown variant %T", m))
}
