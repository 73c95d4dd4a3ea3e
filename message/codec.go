package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// typeField is the wire discriminator key.
const typeField = "type"

// Discriminator values, one per variant.
const (
	kindText   = "text"
	kindImage  = "image"
	kindFile   = "file"
	kindSystem = "system"
	kindCustom = "custom"
)

// wireBase is the shared wire layout. Timestamps travel as RFC 3339
// strings with sub-second precision; absent optionals as null.
type wireBase struct {
	ID        string         `json:"id"`
	AuthorID  string         `json:"authorId"`
	CreatedAt string         `json:"createdAt"`
	Status    Status         `json:"status"`
	UpdatedAt *string        `json:"updatedAt"`
	ReplyToID *string        `json:"replyToId"`
	Metadata  map[string]any `json:"metadata"`
}

type wireText struct {
	wireBase
	Text string `json:"text"`
}

type wireImage struct {
	wireBase
	URI    string `json:"uri"`
	Name   string `json:"name,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type wireFile struct {
	wireBase
	URI  string `json:"uri"`
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
	MIME string `json:"mimeType,omitempty"`
}

type wireSystem struct {
	wireBase
	Text string `json:"text"`
}

type wireCustom struct {
	wireBase
	Payload map[string]any `json:"payload"`
}

// Encode serializes m to its JSON wire form, keyed by the "type"
// discriminator.
func Encode(m Message) ([]byte, error) {
	var (
		kind    string
		payload any
	)
	switch v := m.(type) {
	case TextMessage:
		kind = kindText
		payload = wireText{wireBase: toWireBase(v.Base), Text: v.Text}
	case ImageMessage:
		kind = kindImage
		payload = wireImage{
			wireBase: toWireBase(v.Base),
			URI:      v.URI, Name: v.Name, Size: v.Size,
			Width: v.Width, Height: v.Height,
		}
	case FileMessage:
		kind = kindFile
		payload = wireFile{
			wireBase: toWireBase(v.Base),
			URI:      v.URI, Name: v.Name, Size: v.Size, MIME: v.MIME,
		}
	case SystemMessage:
		kind = kindSystem
		payload = wireSystem{wireBase: toWireBase(v.Base), Text: v.Text}
	case CustomMessage:
		kind = kindCustom
		payload = wireCustom{wireBase: toWireBase(v.Base), Payload: v.Payload}
	default:
		return nil, fmt.Errorf("message: encode: unknown variant %T", m)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("message: encode %s: %w", kind, err)
	}
	return sjson.SetBytes(raw, typeField, kind)
}

// Decode parses one wire message, dispatching on the "type"
// discriminator. A missing or unrecognized discriminator is a format
// error naming the offending value.
func Decode(data []byte) (Message, error) {
	kind := gjson.GetBytes(data, typeField)
	if !kind.Exists() {
		return nil, fmt.Errorf("message: decode: missing %q discriminator", typeField)
	}

	switch kind.String() {
	case kindText:
		var w wireText
		if err := unmarshalWire(data, &w, kindText); err != nil {
			return nil, err
		}
		b, err := fromWireBase(w.wireBase)
		if err != nil {
			return nil, err
		}
		return TextMessage{Base: b, Text: w.Text}, nil
	case kindImage:
		var w wireImage
		if err := unmarshalWire(data, &w, kindImage); err != nil {
			return nil, err
		}
		b, err := fromWireBase(w.wireBase)
		if err != nil {
			return nil, err
		}
		return ImageMessage{
			Base: b,
			URI:  w.URI, Name: w.Name, Size: w.Size,
			Width: w.Width, Height: w.Height,
		}, nil
	case kindFile:
		var w wireFile
		if err := unmarshalWire(data, &w, kindFile); err != nil {
			return nil, err
		}
		b, err := fromWireBase(w.wireBase)
		if err != nil {
			return nil, err
		}
		return FileMessage{
			Base: b,
			URI:  w.URI, Name: w.Name, Size: w.Size, MIME: w.MIME,
		}, nil
	case kindSystem:
		var w wireSystem
		if err := unmarshalWire(data, &w, kindSystem); err != nil {
			return nil, err
		}
		b, err := fromWireBase(w.wireBase)
		if err != nil {
			return nil, err
		}
		return SystemMessage{Base: b, Text: w.Text}, nil
	case kindCustom:
		var w wireCustom
		if err := unmarshalWire(data, &w, kindCustom); err != nil {
			return nil, err
		}
		b, err := fromWireBase(w.wireBase)
		if err != nil {
			return nil, err
		}
		return CustomMessage{Base: b, Payload: w.Payload}, nil
	default:
		return nil, fmt.Errorf("message: decode: unknown message type %q", kind.String())
	}
}

func unmarshalWire(data []byte, v any, kind string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("message: decode %s: %w", kind, err)
	}
	return nil
}

func toWireBase(b Base) wireBase {
	w := wireBase{
		ID:        b.MsgID,
		AuthorID:  b.Author,
		CreatedAt: b.Created.Format(time.RFC3339Nano),
		Status:    b.State,
		Metadata:  b.Metadata,
	}
	if !b.Updated.IsZero() {
		s := b.Updated.Format(time.RFC3339Nano)
		w.UpdatedAt = &s
	}
	if b.InReply != "" {
		s := b.InReply
		w.ReplyToID = &s
	}
	return w
}

func fromWireBase(w wireBase) (Base, error) {
	created, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return Base{}, fmt.Errorf("message: decode: bad createdAt %q: %w", w.CreatedAt, err)
	}

	b := Base{
		MsgID:    w.ID,
		Author:   w.AuthorID,
		Created:  created,
		State:    w.Status,
		Metadata: w.Metadata,
	}
	if w.UpdatedAt != nil {
		updated, err := time.Parse(time.RFC3339Nano, *w.UpdatedAt)
		if err != nil {
			return Base{}, fmt.Errorf("message: decode: bad updatedAt %q: %w", *w.UpdatedAt, err)
		}
		b.Updated = updated
	}
	if w.ReplyToID != nil {
		b.InReply = *w.ReplyToID
	}
	return b, nil
}
